package domain

// DefaultKeyPrefix namespaces every key the service writes to the store.
const DefaultKeyPrefix = "resumerank:"

// Package store defines the persistence interfaces and sentinel errors the
// service layer depends on. Implementations live under internal/platform;
// keeping the contracts here lets business logic stay independent of the
// concrete database technology.
package store

// Package models contains GORM persistence models for the draft store.
// Domain aggregates stay free of ORM tags; each model converts to and from
// its aggregate with ToDomain and a FromDomain constructor.
package models

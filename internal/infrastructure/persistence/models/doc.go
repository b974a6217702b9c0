// Package models contains GORM persistence models. They stay separate from
// domain entities so the domain layer carries no ORM tags; each model has
// ToDomain/FromDomain mappers used by the repositories.
package models

// Package pos owns the order lifecycle and table occupancy model. All
// mutations of orders, order items and table status flow through the
// Coordinator and TableRegistry here; handlers never write those rows
// directly.
//
// The sentinel errors below are the failure taxonomy shared by every
// operation. Handlers translate them into HTTP status codes: ErrNotFound
// to 404, ErrInvalidInput to 400 and ErrConflict to 409.
package pos

import "errors"

// ErrNotFound is returned when a referenced order, table, product or
// employee does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned for malformed requests: an empty line-item
// list, a non-positive quantity, a negative price, an unknown status value.
var ErrInvalidInput = errors.New("invalid input")

// ErrConflict is returned when an operation cannot proceed because of the
// current state: occupying a table that is not AVAILABLE, completing an
// already-completed order, an illegal item status transition, deleting a
// table that still has an open order.
var ErrConflict = errors.New("conflict")

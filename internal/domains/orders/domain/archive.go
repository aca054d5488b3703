package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// archiveNamespace scopes archive ids derived from order snapshots.
var archiveNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:inventory-dashboard:deleted_order"))

// DeriveArchiveID names the archive of an order snapshot. The same rows
// always yield the same id, so an append repeated after a lost
// acknowledgement lands on the existing document instead of adding another.
func DeriveArchiveID(orderID int64, order Record, items, shipments []Record) string {
	payload, err := json.Marshal([]any{order, items, shipments})
	if err != nil {
		payload = []byte(err.Error())
	}
	name := append([]byte(strconv.FormatInt(orderID, 10)+":"), payload...)
	return uuid.NewSHA1(archiveNamespace, name).String()
}

// ArchivedOrderRecord is the point-in-time snapshot written to the document
// store when an order is deleted. It is append-only.
type ArchivedOrderRecord struct {
	ArchiveID  string
	OrderID    int64
	Order      []Record
	OrderItems []Record
	Shipments  []Record
	DeletedAt  time.Time
}

// NewArchivedOrderRecord snapshots the given rows, normalizing them for
// document storage. Relation sequences are empty, never nil.
func NewArchivedOrderRecord(archiveID string, orderID int64, order Record, items, shipments []Record, deletedAt time.Time) ArchivedOrderRecord {
	return ArchivedOrderRecord{
		ArchiveID:  archiveID,
		OrderID:    orderID,
		Order:      []Record{NormalizeRecord(order)},
		OrderItems: NormalizeRecords(items),
		Shipments:  NormalizeRecords(shipments),
		DeletedAt:  deletedAt.UTC(),
	}
}

// ArchiveResult describes a completed archive-then-delete.
type ArchiveResult struct {
	OrderID    int64
	ArchiveID  string
	DeletedAt  time.Time
	OrderItems int
	Shipments  int
}

// OrderArchivedEvent is published after an archived order was removed from the relational store.
type OrderArchivedEvent struct {
	OrderID    int64     `json:"orderId"`
	ArchiveID  string    `json:"archiveId"`
	DeletedAt  time.Time `json:"deletedAt"`
	OrderItems int       `json:"orderItems"`
	Shipments  int       `json:"shipments"`
}

// Event converts the result to its published form.
func (r ArchiveResult) Event() OrderArchivedEvent {
	return OrderArchivedEvent{
		OrderID:    r.OrderID,
		ArchiveID:  r.ArchiveID,
		DeletedAt:  r.DeletedAt,
		OrderItems: r.OrderItems,
		Shipments:  r.Shipments,
	}
}

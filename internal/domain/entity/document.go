package entity

import "time"

// Document is the minimal persistence capability every entity implements,
// letting the storage layer assign identifiers and stamp timestamps without
// knowing entity-specific fields.
type Document interface {
	GetID() string
	SetID(id string)
	Touch(now time.Time)
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }
func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (t *Tour) GetID() string   { return t.ID }
func (t *Tour) SetID(id string) { t.ID = id }
func (t *Tour) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func (r *Review) GetID() string   { return r.ID }
func (r *Review) SetID(id string) { r.ID = id }
func (r *Review) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

func (b *Booking) GetID() string   { return b.ID }
func (b *Booking) SetID(id string) { b.ID = id }
func (b *Booking) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

package domain

import "context"

// CreditStore reads a user's remaining usage credit. The pipelines never
// debit; the balance is owned by the persistent store.
type CreditStore interface {
	// LoadCredit returns ClientError 404 for an unknown user and AppError 500
	// for a NULL balance or any query fault.
	LoadCredit(ctx context.Context, userID string) (int, error)
}

// CooldownStore reads and records per-(user, purpose) last-request timestamps.
type CooldownStore interface {
	// LoadLastRequestTime returns ClientError 404 when no row exists for the
	// pair; an account without cooldown rows is unprovisioned.
	LoadLastRequestTime(ctx context.Context, userID, purpose string) (int64, error)
	// RecordRequestTime upserts the timestamp for the pair.
	RecordRequestTime(ctx context.Context, userID, purpose string, ts int64) error
	// SeedPurposes creates zero-timestamp rows for every purpose, ignoring
	// rows that already exist.
	SeedPurposes(ctx context.Context, userID string) error
}

// NoteStore persists the summarized user note. Upsert is all-or-nothing.
type NoteStore interface {
	UpsertNote(ctx context.Context, userID, text string) error
}

// PromptStore resolves approved shared prompts by key.
type PromptStore interface {
	// ResolveApproved returns ClientError 400 for an unknown or unapproved key.
	ResolveApproved(ctx context.Context, key string) (string, error)
}

// UserStore manages registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Package id provides the prefixed TypeIDs that name accounts, assets and
// events in a stakeledger.
//
// The prefix says what kind of thing an ID names ("acct_…", "asset_…",
// "evt_…"). IDs sort by creation time, so event IDs also sort in commit
// order within one process.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix is the type tag in front of the underscore.
type Prefix string

const (
	PrefixAccount Prefix = "acct"  // Staking participant
	PrefixAsset   Prefix = "asset" // Fungible asset held in custody
	PrefixEvent   Prefix = "evt"   // Ledger event record
)

// ID wraps a TypeID. The zero value is Nil and prints as "".
//
//nolint:recvcheck // UnmarshalText and Scan need pointer receivers.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the absent ID.
var Nil ID

// New returns a fresh ID under prefix. A malformed prefix is a programming
// error and panics.
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{inner: tid, valid: true}
}

// Parse reads any well-formed TypeID, whatever its prefix.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix is Parse that also rejects IDs of the wrong kind.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}
	return parsed, nil
}

// AccountID names a staking participant. Nil stands for "no account" in
// ledger-wide settlement and ledger-wide events.
type AccountID = ID

// AssetID names a fungible asset.
type AssetID = ID

// EventID names a persisted ledger event.
type EventID = ID

func NewAccountID() ID { return New(PrefixAccount) }
func NewAssetID() ID   { return New(PrefixAsset) }
func NewEventID() ID   { return New(PrefixEvent) }

func ParseAccountID(s string) (ID, error) { return ParseWithPrefix(s, PrefixAccount) }
func ParseAssetID(s string) (ID, error)   { return ParseWithPrefix(s, PrefixAsset) }
func ParseEventID(s string) (ID, error)   { return ParseWithPrefix(s, PrefixEvent) }

func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return i.inner.String()
}

func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return Prefix(i.inner.Prefix())
}

func (i ID) IsNil() bool { return !i.valid }

// MarshalText encodes Nil as empty text.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes empty text as Nil.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Value stores Nil as SQL NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // NULL
	}
	return i.inner.String(), nil
}

// Scan accepts NULL, empty and TypeID text.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}

// Package batch turns rows of typed records into encoded artifacts with a
// bounded pool of workers, then bundles the results into a single archive
// with a validation report.
package batch

import (
	"errors"
	"fmt"
)

// Kind names the encoder family that handles an item.
type Kind int

const (
	KindUnknown Kind = iota
	KindBitcoin
	KindEthereum
	KindLightning
	KindCommissioning
	KindText
	KindURL
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindBitcoin:       "bitcoin",
	KindEthereum:      "ethereum",
	KindLightning:     "lightning",
	KindCommissioning: "commissioning",
	KindText:          "text",
	KindURL:           "url",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a row's type string to a Kind. Unrecognized strings map to
// KindUnknown; the item is still created and fails during processing, not
// at parse time.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if k != KindUnknown && name == s {
			return k
		}
	}
	return KindUnknown
}

// Status is the per-item state machine. Transitions only move forward:
// Pending → Processing → {Completed | Failed}.
type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Item is one row mapped to one encode task. A worker that claims the item
// is its only writer until it reaches a terminal status; Artifact is set iff
// Completed (base64 when Binary), ErrMsg iff Failed.
type Item struct {
	ID       string
	Seq      int // input row index, the stable archive sort key
	Kind     Kind
	RawInput string
	Label    string
	Status   Status
	Artifact string
	Binary   bool
	ErrMsg   string
}

// ErrBatchSizeExceeded is returned before any worker starts when the batch
// is over the configured ceiling. No partial archive is produced.
var ErrBatchSizeExceeded = errors.New("batch size exceeded")

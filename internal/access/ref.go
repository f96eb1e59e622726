package access

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// Kind tags the entity a Ref points at.
type Kind string

const (
	KindBoard    Kind = "board"
	KindList     Kind = "list"
	KindCard     Kind = "card"
	KindMember   Kind = "member"
	KindExpense  Kind = "expense"
	KindLocation Kind = "location"
)

// Ref names any board-owned entity. Its owning board is resolved uniformly by the
// repository (card -> list -> board, list -> board, ...).
type Ref struct {
	Kind Kind
	ID   uuid.UUID
}

func (r Ref) String() string { return fmt.Sprintf("%s %s", r.Kind, r.ID) }

func Board(id uuid.UUID) Ref    { return Ref{Kind: KindBoard, ID: id} }
func List(id uuid.UUID) Ref     { return Ref{Kind: KindList, ID: id} }
func Card(id uuid.UUID) Ref     { return Ref{Kind: KindCard, ID: id} }
func Member(id uuid.UUID) Ref   { return Ref{Kind: KindMember, ID: id} }
func Expense(id uuid.UUID) Ref  { return Ref{Kind: KindExpense, ID: id} }
func Location(id uuid.UUID) Ref { return Ref{Kind: KindLocation, ID: id} }

package corpus

import (
	"errors"
	"fmt"
)

// Field names a column of a corpus row, in file order.
type Field int

const (
	ClientID Field = iota
	Path
	Sentence
	UpVotes
	DownVotes
	Age
	Gender
	Accent

	numFields = 8
)

var fieldNames = [numFields]string{
	"client_id", "path", "sentence", "up_votes", "down_votes", "age", "gender", "accent",
}

func (f Field) String() string {
	if f < 0 || int(f) >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a column name such as "client_id" to its Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}

var ErrShortRow = errors.New("row has fewer than 8 fields")

// Record is one corpus row. Votes and age stay as text so rows are written back
// exactly as read.
type Record struct {
	ClientID  string
	Path      string
	Sentence  string
	UpVotes   string
	DownVotes string
	Age       string
	Gender    string
	Accent    string
	// Extra holds columns past the eighth, if the export has any.
	Extra []string
}

func ParseRecord(fields []string) (Record, error) {
	if len(fields) < numFields {
		return Record{}, fmt.Errorf("%w: got %d", ErrShortRow, len(fields))
	}
	r := Record{
		ClientID:  fields[ClientID],
		Path:      fields[Path],
		Sentence:  fields[Sentence],
		UpVotes:   fields[UpVotes],
		DownVotes: fields[DownVotes],
		Age:       fields[Age],
		Gender:    fields[Gender],
		Accent:    fields[Accent],
	}
	if len(fields) > numFields {
		r.Extra = append([]string(nil), fields[numFields:]...)
	}
	return r, nil
}

func (r Record) Field(f Field) string {
	switch f {
	case ClientID:
		return r.ClientID
	case Path:
		return r.Path
	case Sentence:
		return r.Sentence
	case UpVotes:
		return r.UpVotes
	case DownVotes:
		return r.DownVotes
	case Age:
		return r.Age
	case Gender:
		return r.Gender
	case Accent:
		return r.Accent
	}
	return ""
}

// Fields rebuilds the positional row.
func (r Record) Fields() []string {
	out := make([]string, 0, numFields+len(r.Extra))
	out = append(out, r.ClientID, r.Path, r.Sentence, r.UpVotes, r.DownVotes, r.Age, r.Gender, r.Accent)
	return append(out, r.Extra...)
}

// Package inbox carries commands from short-lived CLI invocations to the
// running session. Commands are appended to a log file, one per line:
//
//	<epoch>\t<verb>\t<quoted arg>[\t<estimate>]
//
// and picked up by a watcher that only reads the file.
package inbox

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned for lines that cannot be decoded.
var ErrMalformed = errors.New("malformed inbox line")

// Verb names an operation on the running session.
type Verb string

const (
	VerbAdd      Verb = "add"
	VerbStart    Verb = "start"
	VerbEval     Verb = "eval"
	VerbComplete Verb = "complete"
	VerbAbandon  Verb = "abandon"
	VerbCancel   Verb = "cancel"
)

// Verbs lists every verb Parse accepts.
var Verbs = []Verb{VerbAdd, VerbStart, VerbEval, VerbComplete, VerbAbandon, VerbCancel}

func (v Verb) valid() bool {
	for _, known := range Verbs {
		if v == known {
			return true
		}
	}
	return false
}

// Command is one queued request.
type Command struct {
	Time     time.Time
	Verb     Verb
	Arg      string // description, intention prefix or evaluation
	Estimate int    // add only; 0 means none
}

// EstimatePtr returns the estimate as the optional value the registry takes.
func (c Command) EstimatePtr() *int {
	if c.Estimate <= 0 {
		return nil
	}
	e := c.Estimate
	return &e
}

// Encode renders c as a single line without the trailing newline.
func (c Command) Encode() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(c.Time.Unix(), 10))
	b.WriteByte('\t')
	b.WriteString(string(c.Verb))
	b.WriteByte('\t')
	b.WriteString(strconv.Quote(c.Arg))
	if c.Estimate > 0 {
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(c.Estimate))
	}
	return b.String()
}

// Parse decodes one line produced by Encode.
func Parse(line string) (Command, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 || len(fields) > 4 {
		return Command{}, fmt.Errorf("%w: want 3 or 4 fields, got %d", ErrMalformed, len(fields))
	}
	epoch, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Command{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformed, fields[0])
	}
	verb := Verb(fields[1])
	if !verb.valid() {
		return Command{}, fmt.Errorf("%w: unknown verb %q", ErrMalformed, fields[1])
	}
	arg, err := strconv.Unquote(fields[2])
	if err != nil {
		return Command{}, fmt.Errorf("%w: bad argument %s", ErrMalformed, fields[2])
	}
	c := Command{Time: time.Unix(epoch, 0), Verb: verb, Arg: arg}
	if len(fields) == 4 {
		est, err := strconv.Atoi(fields[3])
		if err != nil || est <= 0 {
			return Command{}, fmt.Errorf("%w: bad estimate %q", ErrMalformed, fields[3])
		}
		c.Estimate = est
	}
	return c, nil
}

package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// You assigns the local player's id and position (U).
type You struct {
	ID              int
	X, Y, Z, RX, RY float32
}

// Block is an authoritative block value for chunk (P, Q) (B).
type Block struct{ P, Q, X, Y, Z, W int }

// Light is a light value for chunk (P, Q) (L).
type Light struct{ P, Q, X, Y, Z, W int }

// Position is a remote player's position (P).
type Position struct {
	ID              int
	X, Y, Z, RX, RY float32
}

// Disconnect removes a remote player (D).
type Disconnect struct{ ID int }

// Key is the server's version key for a chunk (K).
type Key struct{ P, Q, Key int }

// Redraw asks for chunk (P, Q) to be re-meshed (R).
type Redraw struct{ P, Q int }

// Time syncs the day clock (E).
type Time struct {
	Elapsed   float64
	DayLength int
}

// Talk is a chat line (T).
type Talk struct{ Text string }

// Nick names a remote player (N).
type Nick struct {
	ID   int
	Name string
}

// Sign sets or, with empty text, clears a sign face (S).
type Sign struct {
	P, Q, X, Y, Z, Face int
	Text                string
}

func (You) Kind() byte        { return KindYou }
func (Block) Kind() byte      { return KindBlock }
func (Light) Kind() byte      { return KindLight }
func (Position) Kind() byte   { return KindPosition }
func (Disconnect) Kind() byte { return KindDisconnect }
func (Key) Kind() byte        { return KindKey }
func (Redraw) Kind() byte     { return KindRedraw }
func (Time) Kind() byte       { return KindTime }
func (Talk) Kind() byte       { return KindTalk }
func (Nick) Kind() byte       { return KindNick }
func (Sign) Kind() byte       { return KindSign }

// Parse decodes one server line (without the trailing newline).
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return nil, ErrEmptyLine
	}
	if len(line) < 2 || line[1] != ',' {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	kind, rest := line[0], line[2:]
	switch kind {
	case KindYou, KindPosition:
		f := strings.Split(rest, ",")
		if len(f) != 6 {
			return nil, malformed(line)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, malformed(line)
		}
		v, err := floats(f[1:])
		if err != nil {
			return nil, malformed(line)
		}
		if kind == KindYou {
			return You{ID: id, X: v[0], Y: v[1], Z: v[2], RX: v[3], RY: v[4]}, nil
		}
		return Position{ID: id, X: v[0], Y: v[1], Z: v[2], RX: v[3], RY: v[4]}, nil
	case KindBlock, KindLight:
		v, err := ints(rest, 6)
		if err != nil {
			return nil, malformed(line)
		}
		if v[5] < MinValue || v[5] > MaxValue {
			return nil, fmt.Errorf("%w: %q", ErrValueRange, line)
		}
		if kind == KindBlock {
			return Block{P: v[0], Q: v[1], X: v[2], Y: v[3], Z: v[4], W: v[5]}, nil
		}
		return Light{P: v[0], Q: v[1], X: v[2], Y: v[3], Z: v[4], W: v[5]}, nil
	case KindDisconnect:
		v, err := ints(rest, 1)
		if err != nil {
			return nil, malformed(line)
		}
		return Disconnect{ID: v[0]}, nil
	case KindKey:
		v, err := ints(rest, 3)
		if err != nil {
			return nil, malformed(line)
		}
		return Key{P: v[0], Q: v[1], Key: v[2]}, nil
	case KindRedraw:
		v, err := ints(rest, 2)
		if err != nil {
			return nil, malformed(line)
		}
		return Redraw{P: v[0], Q: v[1]}, nil
	case KindTime:
		f := strings.Split(rest, ",")
		if len(f) != 2 {
			return nil, malformed(line)
		}
		elapsed, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			return nil, malformed(line)
		}
		day, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, malformed(line)
		}
		return Time{Elapsed: elapsed, DayLength: day}, nil
	case KindTalk:
		return Talk{Text: rest}, nil
	case KindNick:
		f := strings.SplitN(rest, ",", 2)
		if len(f) != 2 || f[1] == "" {
			return nil, malformed(line)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, malformed(line)
		}
		return Nick{ID: id, Name: truncate(f[1], MaxNameLength-1)}, nil
	case KindSign:
		f := strings.SplitN(rest, ",", 7)
		if len(f) < 6 {
			return nil, malformed(line)
		}
		v, err := ints(strings.Join(f[:6], ","), 6)
		if err != nil {
			return nil, malformed(line)
		}
		s := Sign{P: v[0], Q: v[1], X: v[2], Y: v[3], Z: v[4], Face: v[5]}
		if len(f) == 7 {
			s.Text = truncate(f[6], MaxSignLength-1)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// ParseBuffer splits a newline separated buffer and parses every line,
// skipping lines that do not parse.
func ParseBuffer(buf string) []Message {
	var out []Message
	for _, line := range strings.Split(buf, "\n") {
		m, err := Parse(line)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func malformed(line string) error { return fmt.Errorf("%w: %q", ErrMalformed, line) }

func ints(s string, n int) ([]int, error) {
	f := strings.Split(s, ",")
	if len(f) != n {
		return nil, ErrMalformed
	}
	out := make([]int, n)
	for i, v := range f {
		x, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func floats(f []string) ([]float32, error) {
	out := make([]float32, len(f))
	for i, v := range f {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(x)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Client lines.

func EncodeVersion(v int) string { return fmt.Sprintf("V,%d\n", v) }

func EncodeAuth(username, token string) string {
	return fmt.Sprintf("A,%s,%s\n", username, token)
}

func EncodePosition(x, y, z, rx, ry float32) string {
	return fmt.Sprintf("P,%.2f,%.2f,%.2f,%.2f,%.2f\n", x, y, z, rx, ry)
}

func EncodeChunk(p, q, key int) string { return fmt.Sprintf("C,%d,%d,%d\n", p, q, key) }

func EncodeBlock(x, y, z, w int) string { return fmt.Sprintf("B,%d,%d,%d,%d\n", x, y, z, w) }

func EncodeLight(x, y, z, w int) string { return fmt.Sprintf("L,%d,%d,%d,%d\n", x, y, z, w) }

func EncodeSign(x, y, z, face int, text string) string {
	return fmt.Sprintf("S,%d,%d,%d,%d,%s\n", x, y, z, face, text)
}

func EncodeTalk(text string) string { return fmt.Sprintf("T,%s\n", text) }

// Package dsl reads and writes the line-oriented .plan request format.
//
// A .plan file declares one floor and its rooms, one statement per line:
//
//	# two-bedroom corridor
//	floor 20 x 5
//	entry W offset 1.5 width 0.9
//	wall 0.2
//	room living id r1
//	room bed id r2 door N 0.9 at 0.5
//
// Statements:
//
//   - floor W x H: outer dimensions in meters (required, once)
//   - entry EDGE offset O width D: the main door (required, once)
//   - wall T: exterior wall thickness override (optional)
//   - skip validation: generate without the area check (optional)
//   - room KIND [id ID] [door SIDE WIDTH [at RATIO]]...: one room
//
// Rooms declared without an id receive a random UUID. Edges are case
// insensitive. Reading a file never runs placement or validation.
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	planLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-]*`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(planLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.CaseInsensitive("Ident"),
	)
)

// File is the root AST node of a .plan file.
type File struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Statements []*Statement   `parser:"Newline* ( @@ Newline* )*"`
}

// Statement is one line of a .plan file.
type Statement struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Floor *FloorStmt     `parser:"  @@"`
	Entry *EntryStmt     `parser:"| @@"`
	Wall  *WallStmt      `parser:"| @@"`
	Skip  *SkipStmt      `parser:"| @@"`
	Room  *RoomStmt      `parser:"| @@"`
}

// FloorStmt is `floor W x H`.
type FloorStmt struct {
	Width  float64 `parser:"'floor' @Number 'x'"`
	Height float64 `parser:"@Number"`
}

// EntryStmt is `entry EDGE offset O width D`.
type EntryStmt struct {
	Edge   string  `parser:"'entry' @Ident"`
	Offset float64 `parser:"'offset' @Number"`
	Width  float64 `parser:"'width' @Number"`
}

// WallStmt is `wall T`.
type WallStmt struct {
	Thickness float64 `parser:"'wall' @Number"`
}

// SkipStmt is `skip validation`.
type SkipStmt struct {
	Keyword string `parser:"'skip' @'validation'"`
}

// RoomStmt is `room KIND [id ID] [door ...]*`.
type RoomStmt struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"'room' @Ident"`
	ID    *Name          `parser:"( 'id' @( String | Ident | Number ) )?"`
	Doors []*DoorClause  `parser:"@@*"`
}

// DoorClause is `door SIDE WIDTH [at RATIO]`.
type DoorClause struct {
	Side  string   `parser:"'door' @Ident"`
	Width float64  `parser:"@Number"`
	At    *float64 `parser:"( 'at' @Number )?"`
}

// Name is an identifier that may be written bare or quoted.
type Name string

// Capture implements participle.Capture.
func (n *Name) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("name capture requires value")
	}
	v := values[0]
	if len(v) >= 2 && v[0] == '"' {
		unquoted, err := strconv.Unquote(v)
		if err != nil {
			return err
		}
		v = unquoted
	}
	*n = Name(v)
	return nil
}

// ParseAST parses .plan content into its syntax tree.
func ParseAST(filename string, r io.Reader) (*File, error) {
	return fileParser.Parse(filename, r)
}

// ParseASTString parses .plan content from a string.
func ParseASTString(filename, input string) (*File, error) {
	return fileParser.ParseString(filename, input)
}

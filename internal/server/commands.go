package server

import (
	"fmt"
	"strconv"
	"strings"
)

// Commands accepted over the control socket. Line and column numbers are
// 1-based as typed by the user; the UI converts them.
type (
	// Goto scrolls the viewport to a line.
	Goto struct {
		Line int
	}

	// LineCount asks for the total number of lines.
	LineCount struct{}

	// Top scrolls to the first line.
	Top struct{}

	// Size asks for the file's byte length.
	Size struct{}

	// Mark colors a whole line, or a column region of it.
	Mark struct {
		Line   int
		Region *Region
		Color  string
	}

	// Unmark removes a line's full-line mark, or one region.
	Unmark struct {
		Line   int
		Region *Region
	}

	// Search starts a search for a regex pattern.
	Search struct {
		Pattern string
	}

	// SearchNext jumps to the next match anywhere in the file.
	SearchNext struct{}

	// SearchPrev jumps to the previous match anywhere in the file.
	SearchPrev struct{}

	// SearchClear deactivates the search.
	SearchClear struct{}
)

// Region is a 1-based column range as given on the wire.
type Region struct {
	Start int
	End   int
}

// Response is the single-line answer written back to the client.
type Response struct {
	Msg   string
	IsErr bool
}

// OK builds a success response; msg may be empty.
func OK(msg string) Response {
	return Response{Msg: msg}
}

// Errorf builds an error response.
func Errorf(format string, args ...any) Response {
	return Response{Msg: fmt.Sprintf(format, args...), IsErr: true}
}

// String renders the wire form: "OK", "OK msg", or "ERROR msg".
func (r Response) String() string {
	if r.IsErr {
		return "ERROR " + r.Msg
	}
	if r.Msg == "" {
		return "OK"
	}
	return "OK " + r.Msg
}

// ParseCommand interprets one input line. Command words are
// case-insensitive; patterns and colors keep their spacing via rejoin.
func ParseCommand(input string) (any, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	switch strings.ToLower(parts[0]) {
	case "goto":
		if len(parts) != 2 {
			return nil, fmt.Errorf("usage: goto <line_number>")
		}
		line, err := parseLineNumber(parts[1])
		if err != nil {
			return nil, err
		}
		return Goto{Line: line}, nil

	case "lines":
		if len(parts) != 1 {
			return nil, fmt.Errorf("usage: lines")
		}
		return LineCount{}, nil

	case "top":
		if len(parts) != 1 {
			return nil, fmt.Errorf("usage: top")
		}
		return Top{}, nil

	case "size":
		if len(parts) != 1 {
			return nil, fmt.Errorf("usage: size")
		}
		return Size{}, nil

	case "mark":
		if len(parts) < 3 {
			return nil, fmt.Errorf("usage: mark <line_number> [<start>-<end>] <color>")
		}
		line, err := parseLineNumber(parts[1])
		if err != nil {
			return nil, err
		}
		if region, ok := tryParseRegion(parts[2]); ok {
			if len(parts) < 4 {
				return nil, fmt.Errorf("usage: mark <line_number> <start>-<end> <color>")
			}
			if err := validateRegion(region); err != nil {
				return nil, err
			}
			return Mark{Line: line, Region: &region, Color: strings.Join(parts[3:], " ")}, nil
		}
		return Mark{Line: line, Color: strings.Join(parts[2:], " ")}, nil

	case "unmark":
		if len(parts) < 2 {
			return nil, fmt.Errorf("usage: unmark <line_number> [<start>-<end>]")
		}
		line, err := parseLineNumber(parts[1])
		if err != nil {
			return nil, err
		}
		if len(parts) < 3 {
			return Unmark{Line: line}, nil
		}
		region, ok := tryParseRegion(parts[2])
		if !ok {
			return nil, fmt.Errorf("invalid range format: %s", parts[2])
		}
		if region.Start == 0 || region.End == 0 {
			return nil, fmt.Errorf("column numbers must be >= 1")
		}
		return Unmark{Line: line, Region: &region}, nil

	case "search":
		if len(parts) < 2 {
			return nil, fmt.Errorf("usage: search <regex_pattern>")
		}
		return Search{Pattern: strings.Join(parts[1:], " ")}, nil

	case "search-next":
		if len(parts) != 1 {
			return nil, fmt.Errorf("usage: search-next")
		}
		return SearchNext{}, nil

	case "search-prev":
		if len(parts) != 1 {
			return nil, fmt.Errorf("usage: search-prev")
		}
		return SearchPrev{}, nil

	case "search-clear":
		if len(parts) != 1 {
			return nil, fmt.Errorf("usage: search-clear")
		}
		return SearchClear{}, nil
	}

	return nil, fmt.Errorf("unknown command: %s", parts[0])
}

func parseLineNumber(s string) (int, error) {
	line, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid line number: %s", s)
	}
	if line < 1 {
		return 0, fmt.Errorf("line number must be >= 1")
	}
	return line, nil
}

// tryParseRegion recognizes "<start>-<end>" with numbers on both sides.
func tryParseRegion(s string) (Region, bool) {
	start, end, found := strings.Cut(s, "-")
	if !found {
		return Region{}, false
	}
	a, err1 := strconv.Atoi(start)
	b, err2 := strconv.Atoi(end)
	if err1 != nil || err2 != nil {
		return Region{}, false
	}
	return Region{Start: a, End: b}, true
}

func validateRegion(r Region) error {
	if r.Start == 0 || r.End == 0 {
		return fmt.Errorf("column numbers must be >= 1")
	}
	if r.Start >= r.End {
		return fmt.Errorf("start column must be less than end column")
	}
	return nil
}

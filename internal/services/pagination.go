package services

import "github.com/tbourn/go-qa-backend/internal/utils"

// Query parameter names understood by the pagination resolver.
const (
	ParamStart = "start"
	ParamEnd   = "end"
)

// Pagination is a requested [Start, End) window over a list. It is derived
// per request and never stored.
type Pagination struct {
	Start int
	End   int
}

// ExtractPagination reads the start/end parameters from params.
//
//   - neither present: (nil, nil), meaning the caller returns everything;
//   - only one present: *MissingParameterError naming the absent one;
//   - both present: each must be a non-negative integer, else *ParseError.
func ExtractPagination(params map[string]string) (*Pagination, error) {
	rawStart, hasStart := params[ParamStart]
	rawEnd, hasEnd := params[ParamEnd]

	switch {
	case !hasStart && !hasEnd:
		return nil, nil
	case !hasStart:
		return nil, &MissingParameterError{Name: ParamStart}
	case !hasEnd:
		return nil, &MissingParameterError{Name: ParamEnd}
	}

	start, err := utils.ParseNonNegative(rawStart)
	if err != nil {
		return nil, &ParseError{Param: ParamStart, Value: rawStart, Err: err}
	}
	end, err := utils.ParseNonNegative(rawEnd)
	if err != nil {
		return nil, &ParseError{Param: ParamEnd, Value: rawEnd, Err: err}
	}
	return &Pagination{Start: start, End: end}, nil
}

// Bounds clamps p to a list of length n. End is clamped to [0, n] first and
// Start is then clamped to [0, End], so an out-of-range window collapses to an
// empty range instead of failing.
func (p Pagination) Bounds(n int) (start, end int) {
	end = utils.Clamp(p.End, 0, n)
	start = utils.Clamp(p.Start, 0, end)
	return start, end
}

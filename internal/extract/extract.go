// Package extract turns raw explore and calendar response bodies into
// typed records. The remote payloads are undocumented nested arrays, so
// extraction is heuristic: locate the machine-generated data regions,
// decode them generically, and walk the tree for name+price pairs rather
// than deserializing a fixed schema.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/faredrop/fare-discovery-engine/internal/domain"
)

// rpcGuard is the anti-hijacking prefix the remote prepends to RPC bodies.
const rpcGuard = ")]}'"

// dataBlockMarker opens the inline bootstrap blocks embedded in the
// rendered page markup.
var dataBlockMarker = []byte("AF_initDataCallback(")

// calendarTripleRe pulls (outbound, return, price) triples out of the
// calendar endpoint's escaped-string envelope. The body is not clean JSON
// even after stripping the guard prefix, so targeted extraction is the
// only reliable parse.
var calendarTripleRe = regexp.MustCompile(`\[\\?"(\d{4}-\d{2}-\d{2})\\?",\\?"(\d{4}-\d{2}-\d{2})\\?",\[\[null,(\d+)\]`)

// DestinationsFromHTML applies the structured-payload strategy: find the
// inline data blocks in the page markup, decode each as a generic value
// tree and walk it for destination cards. Blocks that fail to decode are
// skipped; an empty result with a nil error means the page parsed but
// carried no recognizable cards, which the caller treats as the signal to
// try the rendered fallback.
func DestinationsFromHTML(origin string, region domain.Region, body []byte) ([]domain.DestinationCandidate, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty page body: %w", domain.ErrMalformedResponse)
	}

	var candidates []domain.DestinationCandidate
	for _, block := range dataBlocks(body) {
		var root any
		if err := json.Unmarshal(block, &root); err != nil {
			continue
		}
		walkCards(root, func(c card) {
			candidates = append(candidates, candidateFrom(c, origin, region))
		})
	}
	return domain.DedupeCandidates(candidates), nil
}

// DestinationsFromRPC applies the same heuristic walk to the background
// RPC body captured by the rendered fallback. The envelope differs from
// the page markup: a guard prefix, then a JSON array whose string elements
// are themselves JSON-encoded and need a second decode pass.
func DestinationsFromRPC(origin string, region domain.Region, body []byte) ([]domain.DestinationCandidate, error) {
	root, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	var candidates []domain.DestinationCandidate
	walkCards(root, func(c card) {
		candidates = append(candidates, candidateFrom(c, origin, region))
	})
	return domain.DedupeCandidates(candidates), nil
}

// CalendarPoints extracts date/date/price triples from a calendar endpoint
// response. A body with the guard prefix but no triples is a valid empty
// window; a body without the prefix was never produced by the endpoint.
func CalendarPoints(body []byte) ([]domain.PriceCalendarPoint, error) {
	if !bytes.HasPrefix(body, []byte(rpcGuard)) {
		return nil, fmt.Errorf("calendar body missing guard prefix: %w", domain.ErrMalformedResponse)
	}

	matches := calendarTripleRe.FindAllSubmatch(body, -1)
	points := make([]domain.PriceCalendarPoint, 0, len(matches))
	for _, m := range matches {
		price, err := strconv.Atoi(string(m[3]))
		if err != nil || price == 0 {
			continue
		}
		points = append(points, domain.PriceCalendarPoint{
			OutboundDate: string(m[1]),
			ReturnDate:   string(m[2]),
			Price:        price,
		})
	}
	return points, nil
}

func candidateFrom(c card, origin string, region domain.Region) domain.DestinationCandidate {
	cand := domain.DestinationCandidate{
		Origin:       origin,
		Destination:  c.name,
		MinPrice:     c.price,
		Currency:     "USD",
		Duration:     c.duration,
		SearchRegion: region,
	}
	if len(c.dates) == 2 {
		cand.TripStart = c.dates[0]
		cand.TripEnd = c.dates[1]
	}
	return cand
}

// decodeEnvelope strips the guard prefix, decodes the outer JSON array and
// runs a second decode pass over string elements that hold embedded JSON.
func decodeEnvelope(body []byte) (any, error) {
	body = bytes.TrimPrefix(body, []byte(rpcGuard))
	body = bytes.TrimLeft(body, "\n")

	var outer []any
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("decoding rpc envelope: %w", domain.ErrMalformedResponse)
	}
	return secondPass(outer), nil
}

func secondPass(node any) any {
	switch v := node.(type) {
	case string:
		if len(v) > 1 && (v[0] == '[' || v[0] == '{') {
			var inner any
			if err := json.Unmarshal([]byte(v), &inner); err == nil {
				return secondPass(inner)
			}
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = secondPass(child)
		}
		return v
	case map[string]any:
		for k, child := range v {
			v[k] = secondPass(child)
		}
		return v
	default:
		return node
	}
}

// dataBlocks returns the bracket-balanced data payloads of every inline
// bootstrap block found in the markup. Truncated blocks, where the closing
// bracket never arrives, are dropped rather than returned partially.
func dataBlocks(body []byte) [][]byte {
	var blocks [][]byte
	rest := body
	for {
		idx := bytes.Index(rest, dataBlockMarker)
		if idx < 0 {
			return blocks
		}
		rest = rest[idx+len(dataBlockMarker):]

		dataIdx := bytes.Index(rest, []byte("data:"))
		if dataIdx < 0 {
			continue
		}
		open := bytes.IndexByte(rest[dataIdx:], '[')
		if open < 0 {
			continue
		}
		block, ok := balancedSlice(rest[dataIdx+open:])
		if !ok {
			continue
		}
		blocks = append(blocks, block)
		rest = rest[dataIdx+open+len(block):]
	}
}

// balancedSlice returns the prefix of b spanning one bracket-balanced JSON
// array, honoring string literals and escapes.
func balancedSlice(b []byte) ([]byte, bool) {
	depth := 0
	inString := false
	escaped := false

	for i, ch := range b {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return b[:i+1], true
			}
		}
	}
	return nil, false
}

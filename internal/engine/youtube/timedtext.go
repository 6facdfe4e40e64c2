package youtube

import (
	"encoding/xml"
	"errors"
	"strconv"

	"github.com/anatolykoptev/go_blender/internal/engine"
)

// Timed-text XML dialects observed in the wild:
//
//	<transcript><text start="1.2" dur="3.4">CONTENT</text></transcript>
//	<timedtext><body><p t="1200" d="3400">CONTENT</p></body></timedtext>  (srv3, milliseconds)
//
// CONTENT may carry nested tags and HTML entities. innerxml keeps the raw
// payload so cleanup controls exactly what survives.

type legacyTranscript struct {
	XMLName xml.Name     `xml:"transcript"`
	Lines   []legacyLine `xml:"text"`
}

type legacyLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",innerxml"`
}

type srv3TimedText struct {
	XMLName xml.Name `xml:"timedtext"`
	Body    struct {
		Paragraphs []srv3Paragraph `xml:"p"`
	} `xml:"body"`
}

type srv3Paragraph struct {
	T    string `xml:"t,attr"` // start, ms
	D    string `xml:"d,attr"` // duration, ms
	Body string `xml:",innerxml"`
}

// ErrNoSegments is returned when caption XML yields zero usable segments.
var ErrNoSegments = errors.New("no transcript segments in timed-text payload")

// ParseTimedText decodes caption XML of either dialect into ordered
// segments. Segments whose cleaned text is empty are dropped; zero surviving
// segments is an error, not an empty success. Document order is preserved —
// upstream monotonicity is the producer's problem.
func ParseTimedText(body []byte) ([]Segment, error) {
	var legacy legacyTranscript
	if err := xml.Unmarshal(body, &legacy); err == nil && len(legacy.Lines) > 0 {
		var segs []Segment
		for _, line := range legacy.Lines {
			text := engine.CleanCaption(line.Body)
			if text == "" {
				continue
			}
			segs = append(segs, Segment{
				Start:    parseSeconds(line.Start),
				Duration: parseSeconds(line.Dur),
				Text:     text,
			})
		}
		if len(segs) > 0 {
			return segs, nil
		}
		return nil, ErrNoSegments
	}

	var srv3 srv3TimedText
	if err := xml.Unmarshal(body, &srv3); err == nil && len(srv3.Body.Paragraphs) > 0 {
		var segs []Segment
		for _, p := range srv3.Body.Paragraphs {
			text := engine.CleanCaption(p.Body)
			if text == "" {
				continue
			}
			segs = append(segs, Segment{
				Start:    parseMillis(p.T),
				Duration: parseMillis(p.D),
				Text:     text,
			})
		}
		if len(segs) > 0 {
			return segs, nil
		}
	}

	return nil, ErrNoSegments
}

// parseSeconds parses a float seconds attribute; missing or malformed → 0.
func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseMillis parses an integer milliseconds attribute into seconds.
func parseMillis(s string) float64 {
	if s == "" {
		return 0
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms < 0 {
		return 0
	}
	return float64(ms) / 1000
}

package keypoints

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseClicks reads click events from a text stream: each "u v" line is a
// double click, an empty line is a confirm, and lines starting with '#' are
// ignored. A confirm is appended at the end of the stream.
func ParseClicks(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(text, "#") {
			continue
		}
		if text == "" {
			events = append(events, Event{Kind: Confirm})
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d %q: %w", line, text, ErrBadClickLine)
		}
		u, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, ErrBadClickLine)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, ErrBadClickLine)
		}
		events = append(events, Event{Kind: DoubleClick, Pixel: Pixel{U: u, V: v}})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return append(events, Event{Kind: Confirm}), nil
}

// Replay returns a closed channel holding events, for feeding Collect.
func Replay(events []Event) <-chan Event {
	ch := make(chan Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

package anchor

import (
	"strings"
	"time"
)

// CleanFragment strips leading '#' and '!' runs and the trailing "?..."
// suffix some producers append to the fragment.
func CleanFragment(fragment string) string {
	cleaned := strings.TrimLeft(fragment, "#!")
	if idx := strings.LastIndex(cleaned, "?"); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return cleaned
}

// FragmentOf returns the text after the first '#' in href, or "".
func FragmentOf(href string) string {
	_, fragment, _ := strings.Cut(href, "#")
	return fragment
}

// DecodeURI decodes the fragment of href.
func (c *Codec) DecodeURI(href string) State {
	return c.Decode(FragmentOf(href))
}

// Decode turns a fragment into a State. It never fails: tokens that do not
// parse are dropped and values that do not split stay flat strings.
func (c *Codec) Decode(fragment string) State {
	start := time.Now()
	cleaned := CleanFragment(fragment)
	state := c.decode(cleaned)
	c.logger().LogCodec(LogEvent{
		Op:       OpDecode,
		Fragment: cleaned,
		Duration: time.Since(start),
	})
	return state
}

func (c *Codec) decode(cleaned string) State {
	state := State{}
	if cleaned == "" {
		return state
	}
	d := c.cfg.delimiters

	for _, pair := range splitPairs(cleaned, d.Pair, d.KeyValue) {
		key := decodeComponent(pair.key)
		if key == "" {
			continue
		}
		if pair.flag {
			state[key] = Entry{Value: Flag()}
			continue
		}
		state[key] = c.decodeEntry(pair.value)
	}
	return state
}

// decodeEntry splits a raw value on the sub delimiter before unescaping so
// escaped delimiters inside values survive.
func (c *Codec) decodeEntry(raw string) Entry {
	d := c.cfg.delimiters
	source := decodeComponent(raw)
	entry := Entry{
		Value:     String(source),
		Source:    source,
		HasSource: true,
	}

	segments := strings.Split(raw, d.Sub)
	if len(segments) < 2 || segments[1] == "" {
		return entry
	}
	entry.Value = String(decodeComponent(segments[0]))
	entry.Dependents = Dependents(ParsePairs(segments[1], d.DepPair, d.DepKeyValue))
	return entry
}

package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/hupe1980/npclink/core"
)

// errMissingNpcID marks a well-formed line that lacks the required subject
// identifier. Such events are discarded without a parse-error notification.
var errMissingNpcID = errors.New("stream event has no npc_id")

// npcPrefixRE matches a leading bracketed NPC name, e.g. "<merchant> ".
var npcPrefixRE = regexp.MustCompile(`^<[^>]+>\s*`)

// stripNamePrefix removes the NPC name prefix the backend prepends to
// message text. Text without a prefix passes through unchanged.
func stripNamePrefix(msg string) string {
	return npcPrefixRE.ReplaceAllString(msg, "")
}

// decodeLine decodes one trimmed, non-empty stream line into a ServerEvent.
// The returned event has its message prefix already stripped.
func decodeLine(line string) (core.ServerEvent, error) {
	var ev core.ServerEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return core.ServerEvent{}, fmt.Errorf("decode stream event: %w", err)
	}
	if ev.NpcID == uuid.Nil {
		return core.ServerEvent{}, errMissingNpcID
	}
	ev.Message = stripNamePrefix(ev.Message)
	return ev, nil
}

package orchestrator

import (
	"encoding/base64"
	"strings"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/agentruntime"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// responseAggregator accumulates answer text and attachments across all
// rounds of one exchange, in event arrival order.
type responseAggregator struct {
	text        strings.Builder
	attachments []types.Attachment
}

func (a *responseAggregator) addChunk(bytes []byte) {
	a.text.Write(bytes)
}

func (a *responseAggregator) addFiles(files []agentruntime.FilePayload) {
	for _, f := range files {
		a.attachments = append(a.attachments, types.Attachment{
			Name:      f.Name,
			MediaType: f.Type,
			Base64:    base64.StdEncoding.EncodeToString(f.Bytes),
		})
	}
}

func (a *responseAggregator) Text() string {
	return a.text.String()
}

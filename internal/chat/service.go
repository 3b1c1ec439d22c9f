package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gpulab/gpuboard/internal/ai"
	"github.com/gpulab/gpuboard/internal/common"
)

const systemPrompt = "You are a professional GPU technical advisor. You help users with " +
	"graphics card questions: performance comparisons, purchase advice, technical " +
	"specifications and price analysis. Give accurate, practical answers."

// Event is one element of the client-visible stream: a content delta, or the
// terminal done marker.
type Event struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

type StreamRequest struct {
	Message   string
	GpuIDs    []uint64
	SessionID string
	ClientIP  string
	History   []Turn
}

// upstream is the completion API surface the service needs: streaming for the
// normal path plus a buffered completion for clients that cannot consume SSE.
type upstream interface {
	ai.Provider
	ai.StreamProvider
}

// Service proxies one chat request to the upstream completion API, relaying
// deltas as they arrive while accumulating the full reply for persistence.
type Service struct {
	sessions *Repo
	builder  *ContextBuilder
	provider upstream
}

func NewService(sessions *Repo, builder *ContextBuilder, provider upstream) *Service {
	return &Service{sessions: sessions, builder: builder, provider: provider}
}

// composeMessages prefixes the user question with the resolved GPU context.
func (s *Service) composeMessages(ctx context.Context, req StreamRequest) []ai.Message {
	fullMessage := req.Message
	if contextInfo := s.builder.BuildContext(ctx, req.GpuIDs); contextInfo != "" {
		fullMessage = fmt.Sprintf("%s\n\nUser question: %s\n\nAnswer using the detailed GPU specifications above.",
			contextInfo, req.Message)
	}
	return []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fullMessage},
	}
}

// Stream runs the proxy and returns the event channel. However the upstream
// call ends (missing credential, rejection, mid-stream failure, normal
// completion) the channel carries exactly one Done event last and is then
// closed, so consumers never hang. Transcript persistence happens after the
// Done event, off the streaming path.
func (s *Service) Stream(ctx context.Context, req StreamRequest) <-chan Event {
	out := make(chan Event, 16)

	go func() {
		defer close(out)

		chunks, errs := s.provider.StreamChat(ctx, s.composeMessages(ctx, req))

		var acc strings.Builder
		for c := range chunks {
			acc.WriteString(c)
			select {
			case out <- Event{Content: c}:
			case <-ctx.Done():
				// client gone; stop relaying, upstream read is cancelled
				// through the same ctx
				return
			}
		}

		select {
		case err := <-errs:
			if err != nil {
				out <- Event{Content: streamFailureMessage(err)}
			}
		default:
		}

		out <- Event{Done: true}

		if req.SessionID != "" && acc.Len() > 0 {
			go s.persistTranscript(req, acc.String())
		}
	}()

	return out
}

// Complete is the buffered fallback for clients that cannot consume SSE. It
// builds the same prompt as Stream, waits for the whole reply, and persists
// the transcript the same way.
func (s *Service) Complete(ctx context.Context, req StreamRequest) (string, error) {
	reply, err := s.provider.Chat(ctx, s.composeMessages(ctx, req))
	if err != nil {
		return "", err
	}
	if req.SessionID != "" && reply != "" {
		go s.persistTranscript(req, reply)
	}
	return reply, nil
}

// streamFailureMessage converts an internal failure into the in-band text a
// client sees ahead of the terminal done event.
func streamFailureMessage(err error) string {
	if errors.Is(err, ai.ErrAPIKeyMissing) {
		return "DeepSeek API key is not configured. Set DEEPSEEK_API_KEY in the environment."
	}
	var fe *common.FetchError
	if errors.As(err, &fe) && fe.Status > 0 {
		return fmt.Sprintf("API call failed (%d): %s", fe.Status, fe.Msg)
	}
	return "An error occurred while reading the response, please try again later."
}

func (s *Service) persistTranscript(req StreamRequest, reply string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().Format(time.RFC3339)
	turns := make([]Turn, 0, len(req.History)+2)
	turns = append(turns, req.History...)
	turns = append(turns,
		Turn{Role: "user", Content: req.Message, Timestamp: now},
		Turn{Role: "assistant", Content: reply, Timestamp: now},
	)

	if _, err := s.sessions.SaveSession(ctx, req.SessionID, req.ClientIP, req.GpuIDs, turns); err != nil {
		// the reply already streamed; never surface this to the user
		log.Printf("[chat] session save failed session_id=%s err=%v", req.SessionID, err)
	}
}

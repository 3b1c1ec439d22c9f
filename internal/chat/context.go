package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gpulab/gpuboard/internal/detail"
)

const contextHeader = "=== Selected GPU Technical Specifications ===\n\n"

// DetailSource is the cache-or-fetch resolver for one GPU id.
type DetailSource interface {
	GetDetail(ctx context.Context, gpuID uint64) (detail.Detail, error)
}

// ContextBuilder assembles the specification block injected ahead of a user
// message. Resolution is per-id and best effort: a GPU whose detail cannot be
// obtained is logged and dropped, never failing the batch.
type ContextBuilder struct {
	details DetailSource
}

func NewContextBuilder(details DetailSource) *ContextBuilder {
	return &ContextBuilder{details: details}
}

// BuildContext resolves all ids concurrently and assembles the survivors in
// the caller's input order. It returns "" when nothing resolves; callers must
// treat that as "no context", not an error.
func (b *ContextBuilder) BuildContext(ctx context.Context, gpuIDs []uint64) string {
	if len(gpuIDs) == 0 {
		return ""
	}

	results := make([]*detail.Detail, len(gpuIDs))
	var wg sync.WaitGroup
	wg.Add(len(gpuIDs))
	for i, id := range gpuIDs {
		go func(i int, id uint64) {
			defer wg.Done()
			d, err := b.details.GetDetail(ctx, id)
			if err != nil {
				log.Printf("[chat] context resolve failed gpu_id=%d err=%v", id, err)
				return
			}
			results[i] = &d
		}(i, id)
	}
	wg.Wait()

	var sb strings.Builder
	n := 0
	for _, d := range results {
		if d == nil {
			continue
		}
		n++
		fmt.Fprintf(&sb, "%d. %s\n", n, d.Name)
		fmt.Fprintf(&sb, "Source: %s\n", d.URL)
		fmt.Fprintf(&sb, "Specifications:\n%s\n", d.Content)
		sb.WriteString("\n" + strings.Repeat("=", 50) + "\n\n")
	}
	if n == 0 {
		return ""
	}
	return contextHeader + sb.String()
}

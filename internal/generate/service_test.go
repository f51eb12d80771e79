package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/inkwelllabs/styleprofd/internal/config"
	"github.com/inkwelllabs/styleprofd/internal/patterns"
	"github.com/inkwelllabs/styleprofd/internal/profile"
)

// fakeModel satisfies llms.Model with a canned response, recording what it
// was asked.
type fakeModel struct {
	response string
	err      error
	system   string
	human    string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range messages {
		var text strings.Builder
		for _, part := range m.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				text.WriteString(tc.Text)
			}
		}
		switch m.Role {
		case schema.ChatMessageTypeSystem:
			f.system = text.String()
		case schema.ChatMessageTypeHuman:
			f.human = text.String()
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.human = prompt
	return f.response, nil
}

func TestNewService(t *testing.T) {
	t.Run("without an api key the service is unavailable", func(t *testing.T) {
		store := profile.NewStore(zap.NewNop())
		svc, err := NewService(config.GenerationConfig{}, store, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, svc.Available())

		_, err = svc.Generate(context.Background(), "anything")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	newSvc := func(t *testing.T, store *profile.Store, fake *fakeModel) *Service {
		t.Helper()
		svc, err := NewService(config.GenerationConfig{MaxTokens: 4096}, store, zap.NewNop())
		require.NoError(t, err)
		svc.SetModel(fake)
		return svc
	}

	t.Run("rejects an empty brief", func(t *testing.T) {
		svc := newSvc(t, profile.NewStore(zap.NewNop()), &fakeModel{response: "x"})
		_, err := svc.Generate(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyBrief)
	})

	t.Run("sends brief without guidance when no documents analyzed", func(t *testing.T) {
		fake := &fakeModel{response: "<html></html>"}
		svc := newSvc(t, profile.NewStore(zap.NewNop()), fake)

		out, err := svc.Generate(ctx, "a landing page")
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", out)

		assert.Contains(t, fake.system, "designer and frontend developer")
		assert.Contains(t, fake.human, "a landing page")
		assert.NotContains(t, fake.human, "established design language")
	})

	t.Run("includes guidance once documents are merged", func(t *testing.T) {
		store := profile.NewStore(zap.NewNop())
		snap := patterns.NewSnapshot()
		snap.Strings[patterns.Colors] = []string{"#3B82F6"}
		store.Merge(ctx, snap)

		fake := &fakeModel{response: "ok"}
		svc := newSvc(t, store, fake)

		_, err := svc.Generate(ctx, "a pricing page")
		require.NoError(t, err)

		assert.Contains(t, fake.human, "established design language")
		assert.Contains(t, fake.human, "#3B82F6")
	})

	t.Run("wraps model errors", func(t *testing.T) {
		fake := &fakeModel{err: errors.New("upstream down")}
		svc := newSvc(t, profile.NewStore(zap.NewNop()), fake)

		_, err := svc.Generate(ctx, "a page")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream down")
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("omits the guidance block when empty", func(t *testing.T) {
		p := BuildPrompt("a blog layout", "")
		assert.Contains(t, p, "Design brief:\na blog layout")
		assert.NotContains(t, p, "established design language")
	})

	t.Run("embeds guidance after the brief", func(t *testing.T) {
		p := BuildPrompt("a blog layout", "Style consistency guidance ...")
		briefIdx := strings.Index(p, "a blog layout")
		guidanceIdx := strings.Index(p, "Style consistency guidance")
		require.GreaterOrEqual(t, briefIdx, 0)
		require.GreaterOrEqual(t, guidanceIdx, 0)
		assert.Less(t, briefIdx, guidanceIdx)
	})
}

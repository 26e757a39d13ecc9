package routes

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSite(t *testing.T) {
	t.Run("requires at least one root", func(t *testing.T) {
		_, err := NewSite()

		assert.ErrorContains(t, err, "at least one root")
	})

	t.Run("rejects nil roots", func(t *testing.T) {
		_, err := NewSite(nil)

		assert.ErrorContains(t, err, "root 0 is nil")
	})

	t.Run("surfaces registration errors at construction", func(t *testing.T) {
		broken := NewNode().Page("a", okPage).Page("a", okPage)

		_, err := NewSite(broken)
		assert.ErrorContains(t, err, `duplicate member "a"`)
	})

	t.Run("surfaces errors from nested static children", func(t *testing.T) {
		inner := NewNode().Index(nil)
		root := NewNode().Child("section", inner)

		_, err := NewSite(root)
		require.Error(t, err)
		assert.ErrorContains(t, err, `child "section"`)
	})

	t.Run("shared subtrees are validated once", func(t *testing.T) {
		shared := NewNode().Index(okPage)
		root := NewNode().
			Child("a", shared).
			Child("b", shared)

		_, err := NewSite(root)
		assert.NoError(t, err)
	})
}

func TestSiteResolve(t *testing.T) {
	appRoot := NewNode().
		Page("app", func(rc *Context, _ Args) (any, error) {
			return "from-app", nil
		}).
		Page("shared", func(rc *Context, _ Args) (any, error) {
			return "shared-app", nil
		})
	staticRoot := NewNode().
		Page("static", func(rc *Context, _ Args) (any, error) {
			return "from-static", nil
		}).
		Page("shared", func(rc *Context, _ Args) (any, error) {
			return "shared-static", nil
		})

	site, err := NewSite(appRoot, staticRoot)
	require.NoError(t, err)

	t.Run("first root wins", func(t *testing.T) {
		result, err := site.Resolve(context.Background(), []string{"app"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "from-app", result)
	})

	t.Run("not found falls through to the next root", func(t *testing.T) {
		result, err := site.Resolve(context.Background(), []string{"static"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "from-static", result)
	})

	t.Run("order arbitrates overlapping members", func(t *testing.T) {
		result, err := site.Resolve(context.Background(), []string{"shared"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "shared-app", result)
	})

	t.Run("not found everywhere stays not found", func(t *testing.T) {
		_, err := site.Resolve(context.Background(), []string{"missing"}, nil)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSiteFallback(t *testing.T) {
	t.Run("success short-circuits later roots", func(t *testing.T) {
		var secondTried bool
		first := NewNode().Page("p", func(rc *Context, _ Args) (any, error) {
			return "first", nil
		})
		second := probeResource{node: NewNode(), tried: &secondTried}

		site, err := NewSite(first, second)
		require.NoError(t, err)

		result, err := site.Resolve(context.Background(), []string{"p"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "first", result)
		assert.False(t, secondTried)
	})

	t.Run("application errors do not trigger fallback", func(t *testing.T) {
		var secondTried bool
		boom := errors.New("handler exploded")
		first := NewNode().Page("p", func(rc *Context, _ Args) (any, error) {
			return nil, boom
		})
		second := probeResource{node: NewNode().Page("p", okPage), tried: &secondTried}

		site, err := NewSite(first, second)
		require.NoError(t, err)

		_, err = site.Resolve(context.Background(), []string{"p"}, nil)
		assert.ErrorIs(t, err, boom)
		assert.False(t, secondTried)
	})

	t.Run("method not allowed does not trigger fallback", func(t *testing.T) {
		var secondTried bool
		first := NewNode().Child("p", NewMethodNode().Page("GET", okPage))
		second := probeResource{node: NewNode().Page("p", okPage), tried: &secondTried}

		site, err := NewSite(first, second)
		require.NoError(t, err)

		_, err = site.ResolveMethod(context.Background(), "POST", []string{"p"}, nil)
		assert.ErrorIs(t, err, ErrMethodNotAllowed)
		assert.False(t, secondTried)
	})

	t.Run("each root gets a fresh traversal", func(t *testing.T) {
		// The first root consumes a segment descending before missing;
		// the second must still see the full path.
		first := NewNode().Child("docs", NewNode().Page("known", okPage))
		second := NewNode().Child("docs", NewNode().Index(func(rc *Context, _ Args) (any, error) {
			return "second-index", nil
		}).Default(func(rc *Context, args Args) (any, error) {
			return "second:" + args.String("page"), nil
		}, String("page")))

		site, err := NewSite(first, second)
		require.NoError(t, err)

		result, err := site.Resolve(context.Background(), []string{"docs", "intro"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "second:intro", result)
	})
}

// probeResource records whether its node was ever requested during
// resolution, proving (or disproving) that a root was tried.
type probeResource struct {
	node  *Node
	tried *bool
}

func (p probeResource) Node() (*Node, error) {
	*p.tried = true
	return p.node, p.node.Err()
}

func TestSiteTraceLogging(t *testing.T) {
	root := NewNode().Page("hello", okPage)
	site, err := NewSite(root)
	require.NoError(t, err)

	t.Run("nil logger is fine", func(t *testing.T) {
		_, err := site.Resolve(context.Background(), []string{"hello"}, nil)

		assert.NoError(t, err)
	})

	t.Run("debug logger receives the trace", func(t *testing.T) {
		var buf strings.Builder
		site.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		defer func() { site.Logger = nil }()

		_, err := site.Resolve(context.Background(), []string{"hello"}, nil)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "resolution resolved")
		assert.Contains(t, buf.String(), "hello")
	})
}

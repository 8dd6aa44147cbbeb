package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintEvaluator_DomainAllowed(t *testing.T) {
	evaluator := NewConstraintEvaluator()

	t.Run("Success_DefaultAllowWithoutLists", func(t *testing.T) {
		result := evaluator.DomainAllowed("api.example.com", nil, nil)
		assert.True(t, result.Allowed)
		assert.Empty(t, result.Reason)
	})

	t.Run("Success_MatchesAllowlist", func(t *testing.T) {
		result := evaluator.DomainAllowed("api.example.com", []string{"*.example.com"}, nil)
		assert.True(t, result.Allowed)
	})

	t.Run("Error_NotInAllowlist", func(t *testing.T) {
		result := evaluator.DomainAllowed("api.other.com", []string{"*.example.com"}, nil)
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "not in allowlist")
	})

	t.Run("Error_BlockedPattern", func(t *testing.T) {
		result := evaluator.DomainAllowed("evil.example.com", nil, []string{"evil.*"})
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "evil.*")
	})

	t.Run("Error_BlockedTakesPrecedenceOverAllowed", func(t *testing.T) {
		// A subject matching both sets must be denied.
		result := evaluator.DomainAllowed(
			"evil.example.com",
			[]string{"*.example.com"},
			[]string{"evil.example.com"},
		)
		assert.False(t, result.Allowed)
	})

	t.Run("Success_CaseInsensitiveMatching", func(t *testing.T) {
		result := evaluator.DomainAllowed("API.Example.COM", []string{"*.example.com"}, nil)
		assert.True(t, result.Allowed)

		result = evaluator.DomainAllowed("api.example.com", nil, []string{"API.EXAMPLE.COM"})
		assert.False(t, result.Allowed)
	})
}

func TestConstraintEvaluator_PathAllowed(t *testing.T) {
	evaluator := NewConstraintEvaluator()

	t.Run("Success_DefaultAllowWithoutLists", func(t *testing.T) {
		result := evaluator.PathAllowed("/tmp/data.txt", nil, nil)
		assert.True(t, result.Allowed)
	})

	t.Run("Error_BlockedDotFile", func(t *testing.T) {
		// Hidden files must be reachable by blocked patterns.
		result := evaluator.PathAllowed("/app/.env", nil, []string{"**/.env"})
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "**/.env")
	})

	t.Run("Error_BlockedTakesPrecedenceOverAllowed", func(t *testing.T) {
		result := evaluator.PathAllowed(
			"/app/.env",
			[]string{"/app/**"},
			[]string{"**/.env"},
		)
		assert.False(t, result.Allowed)
	})

	t.Run("Success_SeparatorNormalization", func(t *testing.T) {
		result := evaluator.PathAllowed(`C:\app\.env`, nil, []string{"**/.env"})
		assert.False(t, result.Allowed)
	})

	t.Run("Error_CaseSensitiveMatching", func(t *testing.T) {
		result := evaluator.PathAllowed("/App/Config.yml", []string{"/app/**"}, nil)
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Reason, "not in allowlist")
	})

	t.Run("Success_AllowlistMatch", func(t *testing.T) {
		result := evaluator.PathAllowed("/var/log/app.log", []string{"/var/log/*.log"}, nil)
		assert.True(t, result.Allowed)
	})

	t.Run("Error_MalformedPatternNeverMatches", func(t *testing.T) {
		// A malformed allow pattern must not fail open.
		result := evaluator.PathAllowed("/tmp/x", []string{"[invalid"}, nil)
		assert.False(t, result.Allowed)
	})
}

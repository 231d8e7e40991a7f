package set_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquasecurity/snyk-insights/pkg/set"
)

func TestNew(t *testing.T) {
	s := set.New[string]()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Values())

	s = set.New("app-a", "app-b", "app-a")
	assert.Equal(t, 2, s.Len())
}

func TestSet_Append(t *testing.T) {
	s := set.New[string]()
	s.Append("CWE-79", "CWE-89", "CWE-79")
	assert.ElementsMatch(t, []string{"CWE-79", "CWE-89"}, s.Values())
}

func TestSet_Contains(t *testing.T) {
	s := set.New("CVE-2023-1234")
	assert.True(t, s.Contains("CVE-2023-1234"))
	assert.False(t, s.Contains("CVE-2023-5678"))
}

func TestOrdered_Values(t *testing.T) {
	s := set.NewOrdered("zlib", "app-b", "app-a")
	s.Append("app-b")
	assert.Equal(t, []string{"app-a", "app-b", "zlib"}, s.Values())
}

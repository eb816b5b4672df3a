package tablesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("accounts", 2, 20, Filters{"status": "active", "group": 7}, "gpt")
	b := Key("accounts", 2, 20, Filters{"group": 7, "status": "active"}, "gpt")
	assert.Equal(t, a, b, "value-equal tuples must derive the same key")
}

func TestKeyVariesPerField(t *testing.T) {
	base := Key("accounts", 1, 20, Filters{"status": "active"}, "gpt")

	variants := []string{
		Key("users", 1, 20, Filters{"status": "active"}, "gpt"),
		Key("accounts", 2, 20, Filters{"status": "active"}, "gpt"),
		Key("accounts", 1, 50, Filters{"status": "active"}, "gpt"),
		Key("accounts", 1, 20, Filters{"status": "disabled"}, "gpt"),
		Key("accounts", 1, 20, Filters{"status": "active"}, "claude"),
	}
	for _, v := range variants {
		assert.NotEqual(t, base, v)
	}
}

func TestKeyIgnoresNilAndWhitespace(t *testing.T) {
	withNil := Key("accounts", 1, 20, Filters{"status": nil}, "   ")
	bare := Key("accounts", 1, 20, nil, "")
	assert.Equal(t, bare, withNil, "nil filter values and blank search do not contribute to the key")
}

func TestKeyFilterNamespacing(t *testing.T) {
	// A filter literally named "page" must not collide with the page field.
	a := Key("accounts", 2, 20, nil, "")
	b := Key("accounts", 1, 20, Filters{"page": 2}, "")
	assert.NotEqual(t, a, b)
}

func TestKeySeparatesValueTypes(t *testing.T) {
	asNumber := Key("accounts", 1, 20, Filters{"n": 1}, "")
	asString := Key("accounts", 1, 20, Filters{"n": "1"}, "")
	asBool := Key("accounts", 1, 20, Filters{"n": true}, "")
	asBoolString := Key("accounts", 1, 20, Filters{"n": "true"}, "")

	assert.NotEqual(t, asNumber, asString, "1 and \"1\" are distinct filter values")
	assert.NotEqual(t, asBool, asBoolString, "true and \"true\" are distinct filter values")
	assert.NotEqual(t, asNumber, asBool)
}

func TestRootOf(t *testing.T) {
	key := Key("announcements", 3, 10, Filters{"level": "info"}, "")
	assert.Equal(t, "announcements", rootOf(key))
	assert.Equal(t, "bare", rootOf("bare"))
}

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DecodeRegistered(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("SET_LEVEL", func(v Value) (Action, error) {
		n, err := NumberPayload(v)
		if err != nil {
			return nil, err
		}
		return setLevel{Level: n}, nil
	})

	a, err := r.Decode("SET_LEVEL", Number(4))
	require.NoError(t, err)
	assert.Equal(t, setLevel{Level: 4}, a)
}

func TestRegistry_DecodeError(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("SET_LEVEL", func(v Value) (Action, error) {
		n, err := NumberPayload(v)
		return setLevel{Level: n}, err
	})

	_, err := r.Decode("SET_LEVEL", String("high"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `decode action "SET_LEVEL"`)
}

func TestRegistry_UnknownKindIsGeneric(t *testing.T) {
	r := NewRegistry()

	a, err := r.Decode("SOMETHING", nil)
	require.NoError(t, err)
	assert.Equal(t, Generic{Type: "SOMETHING", Value: Null{}}, a)
}

func TestRegistry_ReservedKinds(t *testing.T) {
	r := NewRegistry()

	a, err := r.Decode(KindColdStart, nil)
	require.NoError(t, err)
	assert.Equal(t, ColdStart{}, a)

	a, err = r.Decode(KindValidationRejected, NewObject(O("from", String("INC"))))
	require.NoError(t, err)
	assert.Equal(t, ValidationRejected{From: "INC"}, a)

	_, err = r.Decode(KindValidationRejected, String("INC"))
	require.Error(t, err)

	assert.Error(t, r.Register(KindColdStart, nil))
}

func TestRegistry_DuplicateAndEmpty(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("A", func(Value) (Action, error) { return nil, nil }))
	assert.Error(t, r.Register("A", func(Value) (Action, error) { return nil, nil }))
	assert.Error(t, r.Register("", nil))
	assert.Panics(t, func() { r.MustRegister("A", nil) })
}

func TestRegistry_Kinds(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("B", nil)
	r.MustRegister("A", nil)
	assert.Equal(t, []Kind{KindColdStart, KindValidationRejected, "A", "B"}, r.Kinds())
}

func TestPayloadHelpers(t *testing.T) {
	b, err := BoolPayload(Bool(true))
	require.NoError(t, err)
	assert.True(t, b)
	_, err = BoolPayload(Number(1))
	assert.Error(t, err)

	s, err := StringPayload(String("red"))
	require.NoError(t, err)
	assert.Equal(t, "red", s)
	_, err = StringPayload(Null{})
	assert.Error(t, err)
}

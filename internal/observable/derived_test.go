package observable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive_RecomputesOnAnySource(t *testing.T) {
	name := NewCell("alice")
	age := NewCell(30)

	d := Derive(func() string {
		return fmt.Sprintf("%s:%d", name.Get(), age.Get())
	}, name, age)

	assert.Equal(t, "alice:30", d.Get())

	var seen []string
	d.Subscribe(func(v string) { seen = append(seen, v) })

	name.Set("bob")
	age.Set(31)

	assert.Equal(t, "bob:31", d.Get())
	assert.Equal(t, []string{"alice:30", "bob:30", "bob:31"}, seen)
}

func TestDerive_CloseDetachesSources(t *testing.T) {
	src := NewCell(1)
	d := Derive(func() int { return src.Get() * 2 }, src)

	d.Close()
	src.Set(5)

	assert.Equal(t, 2, d.Get(), "closed view keeps its last value")
}

func TestDerive_Chains(t *testing.T) {
	src := NewCell(2)
	double := Derive(func() int { return src.Get() * 2 }, src)
	quad := Derive(func() int { return double.Get() * 2 }, double)

	src.Set(3)
	assert.Equal(t, 12, quad.Get())
}

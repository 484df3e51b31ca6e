package ui

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordingUIServesInputsInOrder(t *testing.T) {
	u := NewRecordingUI("SN-1", "y", "2", "")
	assert.Equal(t, "SN-1", u.Ask(nil))
	assert.True(t, u.Indent().Confirm("Proceed?", false))
	assert.Equal(t, 1, u.Choose("Pick", []string{"a", "b"}))
	_, ok := u.AskSecret("Passphrase")
	assert.False(t, ok)
	assert.Zero(t, u.Remaining())
}

func TestRecordingUIChooseByText(t *testing.T) {
	u := NewRecordingUI("service center")
	assert.Equal(t, 2, u.Choose("Role", []string{"MANUFACTURER", "RETAILER", "SERVICE CENTER"}))
}

func TestRecordingUIPanicsWithoutInput(t *testing.T) {
	u := NewRecordingUI()
	assert.Panics(t, func() { u.Ask(nil) })
	assert.Panics(t, func() {
		NewRecordingUI("x").Ask(func(string) error { return fmt.Errorf("bad") })
	})
}

func TestRecordingUITables(t *testing.T) {
	u := NewRecordingUI()
	u.Table([]string{"ID", "Model"}, [][]string{{"1", "X1"}, {"2", "X2"}})
	u.KeyValue([][2]string{{"Status", "Pending"}})
	assert.Equal(t, []string{"1 | X1", "2 | X2"}, u.TableRows())
	assert.True(t, u.HasMessage("status: pending"))
	stop := u.Spinner("Loading products...")
	stop()
	assert.True(t, u.HasMessage("loading products"))
}

func TestRecordingUIConcurrentOutput(t *testing.T) {
	u := NewRecordingUI()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u.Info("line %d", i)
			fmt.Fprintf(u.Writer(), "w%d\n", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, u.InfoMessages(), 20)
}

func TestStyledTextMarshalsAsString(t *testing.T) {
	b, err := Good("Approved").MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"Approved"`, string(b))
	assert.Equal(t, "Rejected", NewRecordingUI().Style(Bad("Rejected")))
}

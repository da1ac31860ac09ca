package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quotescout/quotescout/internal/domain"
)

func TestBuildPayload_TrackedOverridesScraped(t *testing.T) {
	fields := []domain.PurchaseField{
		{Tag: domain.TagInput, Type: "text", Name: "root[contact][email]", Value: "old@example.com"},
		{Tag: domain.TagInput, Type: "text", Name: "root[contact][phone]", Value: "123"},
	}
	tracked := map[string]string{"root[contact][email]": "new@example.com"}

	payload := BuildPayload(fields, tracked)

	assert.Equal(t, "new@example.com", payload["root[contact][email]"])
	assert.Equal(t, "123", payload["root[contact][phone]"])
}

func TestBuildPayload_UncheckedCheckboxOmitted(t *testing.T) {
	fields := []domain.PurchaseField{
		riderField("root[quotes][0][riders][1]", "1", 550),
		riderField("root[quotes][0][riders][2]", "1", 1000),
	}
	tracked := map[string]string{
		"root[quotes][0][riders][1]": "1",
		// riders[2] untracked: unchecked
	}

	payload := BuildPayload(fields, tracked)

	assert.Equal(t, "1", payload["root[quotes][0][riders][1]"])

	// The key must be absent, not present with an empty value
	_, present := payload["root[quotes][0][riders][2]"]
	assert.False(t, present)
}

func TestBuildPayload_CheckboxPlaceholderNotChecked(t *testing.T) {
	fields := []domain.PurchaseField{
		riderField("root[quotes][0][riders][1]", "1", 550),
	}
	// "on" is a truthy placeholder but not the checkbox's own value
	tracked := map[string]string{"root[quotes][0][riders][1]": "on"}

	payload := BuildPayload(fields, tracked)

	_, present := payload["root[quotes][0][riders][1]"]
	assert.False(t, present)
}

func TestBuildPayload_PreCheckedCheckboxResubmits(t *testing.T) {
	checked := riderField("root[quotes][0][riders][1]", "1", 550)
	checked.Checked = true
	fields := []domain.PurchaseField{
		checked,
		{Tag: domain.TagInput, Type: "checkbox", Name: "root[newsletter]", Value: "1"},
	}

	// Neither checkbox tracked: the scraped state decides
	payload := BuildPayload(fields, nil)

	assert.Equal(t, "1", payload["root[quotes][0][riders][1]"])
	_, present := payload["root[newsletter]"]
	assert.False(t, present)
}

func TestBuildPayload_TrackedOverridesCheckedState(t *testing.T) {
	checked := riderField("root[quotes][0][riders][1]", "1", 550)
	checked.Checked = true
	fields := []domain.PurchaseField{checked}

	// The user unchecked a pre-checked box; the key must disappear
	payload := BuildPayload(fields, map[string]string{"root[quotes][0][riders][1]": ""})

	_, present := payload["root[quotes][0][riders][1]"]
	assert.False(t, present)
}

func TestBuildPayload_KeepsInternalFields(t *testing.T) {
	// Bookkeeping fields never display but always resubmit
	fields := []domain.PurchaseField{
		{Tag: domain.TagInput, Type: "hidden", Name: "root[quotes][0][uuid]", Value: "deadbeef"},
	}

	payload := BuildPayload(fields, nil)

	assert.Equal(t, "deadbeef", payload["root[quotes][0][uuid]"])
}

func TestBuildPayload_SkipsNamelessFields(t *testing.T) {
	fields := []domain.PurchaseField{
		{Tag: domain.TagInput, Type: "text", Value: "orphan"},
	}

	payload := BuildPayload(fields, nil)

	assert.Empty(t, payload)
}

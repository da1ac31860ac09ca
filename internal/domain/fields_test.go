package domain

import "testing"

func TestIsInternalFieldName(t *testing.T) {
	internal := []string{
		"root[quotes][0][id]",
		"root[quotes][0][uuid]",
		"root[token]",
		"root[quotes][0][factors][age]",
		"root[quotes][0][tax]",
		"root[quotes][0][iva]",
		"root[recalculate]",
		"root[quotes][0][plan_id]",
		"root[quotes][0][rate]",
		"root[quotes][0][riders][5]",
	}
	for _, name := range internal {
		if !IsInternalFieldName(name) {
			t.Errorf("IsInternalFieldName(%q) = false, want true", name)
		}
	}

	external := []string{
		"root[quotes][0][breakdowns][0][passenger][first_name]",
		"root[contact][email]",
		"root[contact][phone]",
		"root[quotes][0][breakdowns][1][passenger][birth_date]",
		"",
	}
	for _, name := range external {
		if IsInternalFieldName(name) {
			t.Errorf("IsInternalFieldName(%q) = true, want false", name)
		}
	}
}

func TestIsAutofillFieldName(t *testing.T) {
	if !IsAutofillFieldName("root[quotes][0][plan]") {
		t.Error("plan must be autofill")
	}
	if !IsAutofillFieldName("root[agency]") {
		t.Error("agency must be autofill")
	}
	if IsAutofillFieldName("root[contact][email]") {
		t.Error("email must not be autofill")
	}
}

func TestShouldDisplay(t *testing.T) {
	premium := int64(550)

	tests := []struct {
		name  string
		field PurchaseField
		want  bool
	}{
		{
			"labeled text input",
			PurchaseField{Tag: TagInput, Type: "text", Name: "root[contact][email]", Label: "Correo electrónico"},
			true,
		},
		{
			"hidden input",
			PurchaseField{Tag: TagInput, Type: "hidden", Name: "root[contact][email]", Label: "x"},
			false,
		},
		{
			"internal bookkeeping",
			PurchaseField{Tag: TagInput, Type: "text", Name: "root[quotes][0][uuid]", Label: "x"},
			false,
		},
		{
			"autofilled plan",
			PurchaseField{Tag: TagInput, Type: "text", Name: "root[quotes][0][plan]", Label: "Plan"},
			false,
		},
		{
			"rider under riders segment still displays",
			PurchaseField{Tag: TagInput, Type: "checkbox", Name: "root[quotes][0][riders][3]", RiderPremiumCents: &premium},
			true,
		},
		{
			"unlabeled optional",
			PurchaseField{Tag: TagInput, Type: "text", Name: "root[misc]"},
			false,
		},
		{
			"unlabeled but required",
			PurchaseField{Tag: TagInput, Type: "text", Name: "root[misc]", Required: true},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldDisplay(&tt.field); got != tt.want {
				t.Errorf("ShouldDisplay() = %v, want %v", got, tt.want)
			}
		})
	}
}

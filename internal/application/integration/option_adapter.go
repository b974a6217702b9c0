package integration

import (
	"github.com/mwc/backend/internal/domain/catalog"
	"github.com/mwc/backend/internal/domain/integration"
)

// OptionConverter converts a local attribute into a remote option.
// It returns false when the attribute has nothing to send.
type OptionConverter interface {
	ToRemoteOption(attr catalog.Attribute) (integration.Option, bool)
}

// OptionAdapter is the default OptionConverter
type OptionAdapter struct{}

// NewOptionAdapter creates a new OptionAdapter
func NewOptionAdapter() *OptionAdapter {
	return &OptionAdapter{}
}

// ToRemoteOption maps variant attributes to VARIANT_LIST options and all
// others to LIST options. Attributes without values or a name are dropped.
func (a *OptionAdapter) ToRemoteOption(attr catalog.Attribute) (integration.Option, bool) {
	if attr.Name == "" || len(attr.Values) == 0 {
		return integration.Option{}, false
	}

	optionType := integration.OptionTypeList
	if attr.IsVariant {
		optionType = integration.OptionTypeVariantList
	}

	values := make([]integration.OptionValue, 0, len(attr.Values))
	for _, v := range attr.Values {
		if v.Name == "" {
			continue
		}
		values = append(values, integration.OptionValue{
			Name:         v.Name,
			Presentation: presentationOf(v.Label, v.Name),
		})
	}
	if len(values) == 0 {
		return integration.Option{}, false
	}

	return integration.Option{
		Type:         optionType,
		Name:         attr.Name,
		Presentation: presentationOf(attr.Label, attr.Name),
		Values:       values,
	}, true
}

func presentationOf(label, name string) string {
	if label != "" {
		return label
	}
	return name
}

var _ OptionConverter = (*OptionAdapter)(nil)

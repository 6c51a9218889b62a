package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityLabelOrdering(t *testing.T) {
	assert.Less(t, Mild, Moderate)
	assert.Less(t, Moderate, Severe)
	assert.Less(t, Severe, Catastrophic)
}

func TestSeverityLabelWireNames(t *testing.T) {
	for label, name := range map[SeverityLabel]string{
		Mild:         "Mild",
		Moderate:     "Moderate",
		Severe:       "Severe",
		Catastrophic: "Catastrophic",
	} {
		assert.Equal(t, name, label.String())

		data, err := json.Marshal(label)
		require.NoError(t, err)
		assert.Equal(t, `"`+name+`"`, string(data))

		var back SeverityLabel
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, label, back)
	}
}

func TestSeverityLabelRejectsUnknown(t *testing.T) {
	_, err := json.Marshal(SeverityLabel(9))
	assert.Error(t, err)

	var label SeverityLabel
	assert.Error(t, json.Unmarshal([]byte(`"Apocalyptic"`), &label))
	assert.Error(t, json.Unmarshal([]byte(`2`), &label))
}

package receipts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReceipt = `{
  "vendor": "Ravinteli Olkkari",
  "date": "2025-03-14",
  "items": [{"name": "Lohikeitto", "quantity": 2, "price": 18.5}, {"name": "Riesling", "quantity": 1, "price": "12.00"}],
  "tax": 7.3,
  "total": 49,
  "currency": "eur"
}`

func TestParseReceipt_PlainJSON(t *testing.T) {
	data, err := ParseReceipt(sampleReceipt)

	require.NoError(t, err)
	assert.Equal(t, "Ravinteli Olkkari", data.Vendor)
	assert.Equal(t, "2025-03-14", data.Date)
	require.Len(t, data.Items, 2)
	assert.Equal(t, Amount(2), data.Items[0].Quantity)
	assert.Equal(t, Amount(12), data.Items[1].Price)
	assert.Equal(t, Amount(7.3), data.Tax)
	assert.Equal(t, Amount(49), data.Total)
	assert.Equal(t, "EUR", data.Currency)
}

func TestParseReceipt_Fenced(t *testing.T) {
	for name, raw := range map[string]string{
		"json tag":   "```json\n" + sampleReceipt + "\n```",
		"bare fence": "```\n" + sampleReceipt + "\n```",
		"padding":    "\n\n  ```json\n" + sampleReceipt + "\n```  \n",
	} {
		t.Run(name, func(t *testing.T) {
			data, err := ParseReceipt(raw)
			require.NoError(t, err)
			assert.Equal(t, "Ravinteli Olkkari", data.Vendor)
		})
	}
}

func TestParseReceipt_DefaultsCurrency(t *testing.T) {
	data, err := ParseReceipt(`{"vendor":"Kahvila","items":[],"total":4.2}`)

	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, data.Currency)
	assert.Empty(t, data.Date)
	assert.Empty(t, data.Items)
}

func TestParseReceipt_NullAmounts(t *testing.T) {
	data, err := ParseReceipt(`{"vendor":"Kahvila","date":null,"items":[{"name":"Kahvi","quantity":null,"price":3}],"tax":null,"total":3}`)

	require.NoError(t, err)
	assert.Equal(t, Amount(0), data.Tax)
	assert.Equal(t, Amount(0), data.Items[0].Quantity)
}

func TestParseReceipt_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"prose":            "I could not read this receipt, sorry.",
		"truncated":        `{"vendor":"Kahvila","items":[`,
		"trailing":         `{"vendor":"Kahvila","items":[],"total":1} and more`,
		"array":            `[{"vendor":"Kahvila"}]`,
		"null":             `null`,
		"missing vendor":   `{"items":[],"total":1}`,
		"missing items":    `{"vendor":"Kahvila","total":1}`,
		"missing total":    `{"vendor":"Kahvila","items":[]}`,
		"bad date":         `{"vendor":"Kahvila","date":"14.3.2025","items":[],"total":1}`,
		"bad amount":       `{"vendor":"Kahvila","items":[],"total":"lots"}`,
		"unnamed item":     `{"vendor":"Kahvila","items":[{"quantity":1,"price":2}],"total":2}`,
		"wrong field type": `{"vendor":42,"items":[],"total":1}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReceipt(raw)
			assert.Error(t, err)
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```json{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1}  `))
	assert.Equal(t, `{"a":1}`, StripFences("```{\"a\":1}\n```"))
}

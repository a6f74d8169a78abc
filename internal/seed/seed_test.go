package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-1", s.AI.ContactID)
	assert.Equal(t, "gemini-2.5-flash", s.AI.ChatModel)
	assert.Equal(t, "imagen-4.0-generate-001", s.AI.ImageModel)
	assert.NotEmpty(t, s.AI.Persona)
	require.Len(t, s.Contacts, 4)
	assert.Equal(t, "gemini-1", s.Contacts[0].ID)
	assert.Equal(t, 2, s.Contacts[2].Unread)
	assert.Len(t, s.InboundPool, 5)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "no contacts",
			doc:     "ai: {contact_id: a}\ninbound_pool: [x]\n",
			wantErr: "no contacts",
		},
		{
			name:    "bad id",
			doc:     "ai: {contact_id: a}\ncontacts: [{id: A B}]\ninbound_pool: [x]\n",
			wantErr: "invalid contact id",
		},
		{
			name:    "duplicate id",
			doc:     "ai: {contact_id: a}\ncontacts: [{id: a}, {id: a}]\ninbound_pool: [x]\n",
			wantErr: "duplicate contact id",
		},
		{
			name:    "missing ai contact",
			doc:     "ai: {contact_id: z}\ncontacts: [{id: a}]\ninbound_pool: [x]\n",
			wantErr: "not in contact list",
		},
		{
			name:    "empty pool",
			doc:     "ai: {contact_id: a}\ncontacts: [{id: a}]\n",
			wantErr: "pool is empty",
		},
		{
			name:    "negative unread",
			doc:     "ai: {contact_id: a}\ncontacts: [{id: a, unread: -1}]\ninbound_pool: [x]\n",
			wantErr: "negative unread",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("contacts: ["))
	assert.ErrorContains(t, err, "decode seed")
}

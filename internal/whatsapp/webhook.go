package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Payload do webhook da Cloud API (apenas os campos usados).
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string      `json:"field"`
			Value ChangeValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type ChangeValue struct {
	MessagingProduct string `json:"messaging_product"`
	Metadata         struct {
		DisplayPhoneNumber string `json:"display_phone_number"`
		PhoneNumberID      string `json:"phone_number_id"`
	} `json:"metadata"`
	Contacts []struct {
		WaID    string `json:"wa_id"`
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	} `json:"contacts"`
	Messages []struct {
		From      string `json:"from"`
		ID        string `json:"id"`
		Timestamp string `json:"timestamp"`
		Type      string `json:"type"`
		Text      *struct {
			Body string `json:"body"`
		} `json:"text"`
		Image *struct {
			Caption string `json:"caption"`
		} `json:"image"`
	} `json:"messages"`
	Statuses []struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		RecipientID string `json:"recipient_id"`
	} `json:"statuses"`
}

// InboundMessage é a forma já achatada de uma mensagem recebida.
type InboundMessage struct {
	PhoneNumberID string
	From          string
	ProfileName   string
	WaMessageID   string
	Body          string
	SentAt        time.Time
}

type StatusUpdate struct {
	PhoneNumberID string
	WaMessageID   string
	Status        string
}

// VerifySignature confere o header X-Hub-Signature-256 ("sha256=<hex>").
func VerifySignature(appSecret string, body []byte, header string) bool {
	if appSecret == "" {
		return false
	}
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Parse extrai mensagens e atualizações de status do corpo do webhook.
// Tipos sem texto viram um marcador legível no inbox.
func Parse(body []byte) ([]InboundMessage, []StatusUpdate, error) {
	var p WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, nil, err
	}

	var msgs []InboundMessage
	var statuses []StatusUpdate

	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "" && change.Field != "messages" {
				continue
			}
			v := change.Value
			phoneID := v.Metadata.PhoneNumberID

			names := make(map[string]string, len(v.Contacts))
			for _, ct := range v.Contacts {
				names[ct.WaID] = ct.Profile.Name
			}

			for _, m := range v.Messages {
				in := InboundMessage{
					PhoneNumberID: phoneID,
					From:          m.From,
					ProfileName:   names[m.From],
					WaMessageID:   m.ID,
					SentAt:        parseUnix(m.Timestamp),
				}
				switch {
				case m.Text != nil:
					in.Body = m.Text.Body
				case m.Image != nil && m.Image.Caption != "":
					in.Body = "[imagen] " + m.Image.Caption
				default:
					in.Body = "[" + m.Type + "]"
				}
				msgs = append(msgs, in)
			}

			for _, s := range v.Statuses {
				statuses = append(statuses, StatusUpdate{
					PhoneNumberID: phoneID,
					WaMessageID:   s.ID,
					Status:        s.Status,
				})
			}
		}
	}

	return msgs, statuses, nil
}

func parseUnix(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Now()
	}
	return time.Unix(n, 0)
}

package validators

import "strings"

// NormalizePhone mantém apenas os dígitos do telefone. É a chave usada para
// casar clientes com conversas do WhatsApp (wa_id chega só com dígitos).
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsPhoneValid(phone string) bool {
	n := len(NormalizePhone(phone))
	return n >= 8 && n <= 15
}

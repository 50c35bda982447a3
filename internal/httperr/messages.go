package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type businessMapping struct {
	status  int
	message string
}

// Tabela única de códigos de negócio → status HTTP + mensagem ao usuário.
var businessMessages = map[string]businessMapping{
	"barbershop_not_found":   {http.StatusNotFound, "Barbería no encontrada."},
	"branch_not_found":       {http.StatusNotFound, "Sucursal no encontrada."},
	"barber_not_found":       {http.StatusNotFound, "Barbero no encontrado."},
	"service_not_found":      {http.StatusBadRequest, "Servicio no encontrado."},
	"client_not_found":       {http.StatusNotFound, "Cliente no encontrado."},
	"appointment_not_found":  {http.StatusNotFound, "Turno no encontrado."},
	"bloqueo_not_found":      {http.StatusNotFound, "Bloqueo no encontrado."},
	"movement_not_found":     {http.StatusNotFound, "Movimiento no encontrado."},
	"conversation_not_found": {http.StatusNotFound, "Conversación no encontrada."},
	"payment_not_found":      {http.StatusNotFound, "Pago no encontrado."},

	"forbidden":          {http.StatusForbidden, "No tiene permiso para esta operación."},
	"email_already_used": {http.StatusConflict, "El email ya está en uso."},
	"slug_already_used":  {http.StatusConflict, "El slug ya está en uso."},

	"invalid_date_or_time":  {http.StatusBadRequest, "Fecha u hora inválida."},
	"invalid_date":          {http.StatusBadRequest, "Fecha inválida."},
	"invalid_month":         {http.StatusBadRequest, "Mes inválido."},
	"invalid_range":         {http.StatusBadRequest, "Rango de fechas inválido."},
	"range_too_large":       {http.StatusBadRequest, "El rango de fechas es demasiado grande."},
	"invalid_clock":         {http.StatusBadRequest, "Horario inválido (HH:MM)."},
	"invalid_weekday":       {http.StatusBadRequest, "Día de la semana inválido."},
	"invalid_working_hours": {http.StatusBadRequest, "El horario de inicio debe ser anterior al de fin."},
	"invalid_lunch":         {http.StatusBadRequest, "El almuerzo debe estar dentro del horario de trabajo."},
	"too_soon":              {http.StatusBadRequest, "El horario no respeta la anticipación mínima."},
	"in_the_past":           {http.StatusBadRequest, "El horario ya pasó."},
	"outside_working_hours": {http.StatusBadRequest, "Fuera del horario de atención."},
	"blocked_time":          {http.StatusConflict, "El horario está bloqueado."},
	"time_conflict":         {http.StatusConflict, "Conflicto de horario."},
	"invalid_transition":    {http.StatusBadRequest, "Cambio de estado no permitido."},
	"invalid_status":        {http.StatusBadRequest, "Estado inválido."},
	"not_reschedulable":     {http.StatusBadRequest, "Solo se pueden reprogramar turnos pendientes."},
	"no_barber_available":   {http.StatusConflict, "No hay barberos disponibles en ese horario."},
	"client_name_required":  {http.StatusBadRequest, "El nombre del cliente es obligatorio."},
	"invalid_phone":         {http.StatusBadRequest, "Teléfono inválido."},

	"client_phone_exists":     {http.StatusConflict, "Ya existe un cliente con ese teléfono."},
	"client_has_appointments": {http.StatusConflict, "El cliente tiene turnos registrados."},

	"bloqueo_overlaps_appointments": {http.StatusConflict, "Hay turnos pendientes en el rango a bloquear."},

	"invalid_amount":         {http.StatusBadRequest, "El monto debe ser mayor que cero."},
	"invalid_movement_type":  {http.StatusBadRequest, "Tipo de movimiento inválido."},
	"invalid_payment_method": {http.StatusBadRequest, "Medio de pago inválido."},
	"branch_required":        {http.StatusBadRequest, "Debe indicar la sucursal."},
	"caja_closed":            {http.StatusConflict, "La caja de ese día ya está cerrada."},
	"already_voided":         {http.StatusConflict, "El movimiento ya fue anulado."},
	"already_closed":         {http.StatusConflict, "La caja de ese día ya fue cerrada."},

	"appointment_already_paid": {http.StatusConflict, "El turno ya tiene un ingreso registrado."},

	"message_required":        {http.StatusBadRequest, "El mensaje está vacío."},
	"whatsapp_not_configured": {http.StatusConflict, "WhatsApp no está configurado para esta barbería."},
	"payments_not_configured": {http.StatusConflict, "Los pagos online no están configurados."},
	"not_payable":             {http.StatusBadRequest, "El turno no admite pago online."},
	"payment_provider_error":  {http.StatusBadGateway, "Error con el proveedor de pagos."},
}

// FromBusiness responde com o mapeamento do código de negócio; devolve false
// quando err não é um BusinessError conhecido (o chamador decide o 500).
func FromBusiness(c *gin.Context, err error) bool {
	be, ok := AsBusiness(err)
	if !ok {
		if IsExclusionConflict(err) {
			be = BusinessError{Code: "time_conflict"}
		} else {
			return false
		}
	}

	m, known := businessMessages[be.Code]
	if !known {
		m = businessMapping{http.StatusBadRequest, "Operación inválida."}
	}

	c.JSON(m.status, HTTPError{
		Code:    be.Code,
		Message: m.message,
		Details: be.Details,
	})
	return true
}

// Respond usa FromBusiness e cai num 500 genérico com o código informado.
func Respond(c *gin.Context, err error, internalCode string) {
	if FromBusiness(c, err) {
		return
	}
	Internal(c, internalCode, "Error interno.")
}

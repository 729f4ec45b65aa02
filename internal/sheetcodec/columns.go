package sheetcodec

// Колонки листа Mesas (после NormalizeHeader) и их синонимы.
var (
	colTableID       = []string{"id", "mesa", "numero", "numero_mesa"}
	colZone          = []string{"zona"}
	colCapacity      = []string{"capacidad", "plazas"}
	colStatus        = []string{"estado"}
	colOccupiedSince = []string{"ocupada_desde", "hora_ocupacion"}
	colReservedUntil = []string{"reservada_hasta"}
	colClient        = []string{"cliente", "nombre"}
	colPhone         = []string{"telefono"}
	colParty         = []string{"personas", "comensales"}
	colSession       = []string{"sesion", "session_id"}
	colUpdated       = []string{"actualizado", "actualizada", "ultima_actualizacion", "updated_at"}
)

// Колонки листа Reservas.
var (
	colReservationID = []string{"id", "id_reserva", "reserva"}
	colDate          = []string{"fecha"}
	colTime          = []string{"hora"}
	colName          = []string{"nombre", "cliente"}
	colTable         = []string{"mesa"}
	colCreated       = []string{"creada", "creado", "fecha_creacion", "created_at"}
)

// Колонки листов DiasCerrados и Turnos.
var (
	colReason     = []string{"motivo"}
	colShiftName  = []string{"nombre", "turno"}
	colShiftStart = []string{"inicio", "apertura", "desde"}
	colShiftEnd   = []string{"fin", "cierre", "hasta"}
)

var tableStatuses = map[string]string{
	"libre": "free", "free": "free", "disponible": "free",
	"ocupada": "occupied", "occupied": "occupied",
	"reservada": "reserved", "reserved": "reserved",
	"ocupada_todo_el_dia": "occupied_all_day", "occupied_all_day": "occupied_all_day",
	"mantenimiento": "maintenance", "maintenance": "maintenance", "fuera_de_servicio": "maintenance",
}

var tableStatusesOut = map[string]string{
	"free": "libre", "occupied": "ocupada", "reserved": "reservada",
	"occupied_all_day": "ocupada todo el dia", "maintenance": "mantenimiento",
}

var reservationStatuses = map[string]string{
	"pendiente": "pending", "pending": "pending",
	"confirmada": "confirmed", "confirmed": "confirmed",
	"ocupada": "occupied", "sentada": "occupied", "seated": "occupied", "occupied": "occupied",
	"completada": "completed", "finalizada": "completed", "completed": "completed",
	"cancelada": "cancelled", "cancelled": "cancelled", "canceled": "cancelled",
}

var tableColumnGroups = [][]string{
	colTableID, colZone, colCapacity, colStatus, colOccupiedSince, colReservedUntil,
	colClient, colPhone, colParty, colSession, colUpdated,
}

// tableCanonical — синоним заголовка Mesas → каноническое имя (первый в группе).
var tableCanonical = func() map[string]string {
	out := make(map[string]string)
	for _, group := range tableColumnGroups {
		for _, alias := range group {
			out[alias] = group[0]
		}
	}
	return out
}()

// CanonicalTableColumn — каноническое имя колонки Mesas для нормализованного заголовка;
// незнакомый заголовок возвращается как есть.
func CanonicalTableColumn(header string) string {
	if c, ok := tableCanonical[header]; ok {
		return c
	}
	return header
}

// IsTableKeyColumn — колонка с id стола.
func IsTableKeyColumn(header string) bool {
	return CanonicalTableColumn(header) == colTableID[0]
}

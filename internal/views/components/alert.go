package components

// AlertKind selects the styling of an alert.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertWarning AlertKind = "warning"
	AlertError   AlertKind = "error"
)

var alertClasses = map[AlertKind]string{
	AlertSuccess: "alert border border-green-400 bg-green-100 text-green-700 px-4 py-3 rounded",
	AlertWarning: "alert border border-yellow-400 bg-yellow-100 text-yellow-700 px-4 py-3 rounded",
	AlertError:   "alert border border-red-400 bg-red-100 text-red-700 px-4 py-3 rounded",
}

// alertKind falls back to the error style for kinds it does not know.
func alertKind(kind AlertKind) AlertKind {
	if _, ok := alertClasses[kind]; ok {
		return kind
	}
	return AlertError
}

func alertClass(kind AlertKind) string {
	return alertClasses[alertKind(kind)]
}

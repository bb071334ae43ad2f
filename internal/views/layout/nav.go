package layout

const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}

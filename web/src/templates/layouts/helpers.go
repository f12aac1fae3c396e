package layouts

// AppName is shown in the page title and header.
const AppName = "Recipe Box"

// CalculateTitle handles the conditional logic for the page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - " + AppName
	}
	return AppName
}

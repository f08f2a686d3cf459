package view

// Page is the static chrome around the selector, buttons and detail panel.
// None of it affects selection behavior.
type Page struct {
	Title         string
	Intro         string
	SidebarTitle  string
	SelectorLabel string
	MainHeader    string
	DetailsHeader string
}

// DefaultPage returns the chrome the bot ships with
func DefaultPage() Page {
	return Page{
		Title:         "Naruto Characters",
		Intro:         "Click on a character to learn more about them!",
		SidebarTitle:  "Select a Character",
		SelectorLabel: "Characters:",
		MainHeader:    "Main Page",
		DetailsHeader: "Character Details",
	}
}

// ButtonLabel is the label of the trigger for one character
func ButtonLabel(name string) string {
	return "About " + name
}

// Package accounts serves the member directory shown to signed-in clients.
package accounts

// Member is one row of the directory listing.
type Member struct {
	Name        string `json:"name"`
	DateCreated string `json:"dateCreated"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

// Directory returns the fixed listing served on the protected root route.
func Directory() []Member {
	return []Member{
		{"micheal holz", "10/03/2025 ", "admin", "active"},
		{"paula wilson", "15/08/2013 ", "publisher", "inactive"},
		{"james smith", "20/01/2020 ", "editor", "suspended"},
		{"sarah johnson", "25/12/2018 ", "admin", "active"},
		{"david brown", "30/06/2015 ", "publisher", "inactive"},
		{"emily jones", "05/11/2021 ", "editor", "suspended"},
		{"michael garcia", "10/03/2022 ", "admin", "active"},
		{"jessica martinez", "15/08/2019 ", "publisher", "inactive"},
		{"william lopez", "20/01/2021 ", "editor", "suspended"},
		{"olivia gonzalez", "25/12/2020 ", "admin", "active"},
		{"james wilson", "30/06/2017 ", "publisher", "inactive"},
		{"sophia taylor", "05/11/2018 ", "editor", "suspended"},
		{"benjamin thomas", "10/03/2016 ", "admin", "active"},
	}
}

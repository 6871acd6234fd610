package router

const (
	labelCategories     = "Categories"
	labelCollections    = "Collections"
	labelFeatured       = "Featured"
	labelSearch         = "Search"
	labelSearchCategory = "Find Category"
	labelLogin          = "Login"
	labelLogout         = "Logout"

	askUsername  = "CuriosityStream Email"
	askPassword  = "CuriosityStream Password"
	askLogout    = "Are you sure you want to logout?"
	askCategory  = "Category"
	searchFormat = "Search: %s (%d/%d)"
)

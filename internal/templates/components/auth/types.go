package auth

type LoginData struct {
	Admin  bool
	Email  string
	Error  string
	Notice string
}

type RegisterData struct {
	Admin    bool
	Name     string
	Email    string
	ClubName string
	ClubSlug string
	Error    string
}

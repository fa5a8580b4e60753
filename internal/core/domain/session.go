package domain

type User struct {
	ID       string
	Username string
	Email    string
	Role     string
}

type Session struct {
	Authenticated bool
	User          *User
}

// Credentials is the result of a successful login or registration.
type Credentials struct {
	Token string
	User  *User
}

type (
	LoginForm struct {
		Username string
		Password string
	}

	RegisterForm struct {
		Username string
		Email    string
		Password string
	}
)

// A Decision is the outcome of a route guard for one navigation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

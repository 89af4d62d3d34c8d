package placeholder

// Post is a blog post as served by the JSONPlaceholder API.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// User is the author of a post.
type User struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Website  string   `json:"website,omitempty"`
	Company  *Company `json:"company,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// Company is the optional employer record attached to a user.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase,omitempty"`
	BS          string `json:"bs,omitempty"`
}

// Address is the optional postal record attached to a user.
type Address struct {
	Street  string `json:"street,omitempty"`
	Suite   string `json:"suite,omitempty"`
	City    string `json:"city,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
}

// Comment is a reader comment attached to a post.
type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// PostDetails is the per-request aggregate of a post, its author, and its
// comments. It is assembled on every call and never cached.
type PostDetails struct {
	Post     Post      `json:"post"`
	User     User      `json:"user"`
	Comments []Comment `json:"comments"`
}

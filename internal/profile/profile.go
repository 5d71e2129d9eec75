// Package profile stores controller login profiles in an encrypted file so
// operators don't re-type credentials for every run.
package profile

// Profile holds the credentials for one controller.
type Profile struct {
	Name     string `json:"name"`
	Server   string `json:"server"` // host or host:port, no scheme
	Username string `json:"username"`
	Password string `json:"password"`
}

// Summary is a safe representation without the password.
type Summary struct {
	Name     string `json:"name"`
	Server   string `json:"server"`
	Username string `json:"username"`
}

// Summarize strips the secret fields.
func (p *Profile) Summarize() Summary {
	return Summary{Name: p.Name, Server: p.Server, Username: p.Username}
}

// Provider is the interface for profile storage backends.
type Provider interface {
	List() ([]Summary, error)
	Get(name string) (*Profile, error)
	Add(p Profile) error
	Update(name string, p Profile) error
	Remove(name string) error
}

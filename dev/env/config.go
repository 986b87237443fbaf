package devenv

// PortalTestConfig feeds the live portal tests, which only run when a
// config exists under dev/.state. Live runs hit the real insurer
// sites with real credentials, so none of this is checked in.
type PortalTestConfig struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Insurer      string `json:"insurer"`
	EmiratesID   string `json:"emirates_id"`
	MobileNumber string `json:"mobile_number"`
}

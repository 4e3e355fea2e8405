package fyers

// Profile is the account profile returned by the broker.
type Profile struct {
	Name          string  `json:"name"`
	DisplayName   *string `json:"display_name"`
	ClientID      string  `json:"fy_id"`
	Image         *string `json:"image"`
	Email         string  `json:"email_id"`
	PAN           string  `json:"PAN"`
	PinChangeDate *string `json:"pin_change_date"`
	PwdChangeDate *string `json:"pwd_change_date"`
	MobileNumber  string  `json:"mobile_number"`
	TOTP          bool    `json:"totp"`
	PwdToExpire   int     `json:"pwd_to_expire"`
	DDPIEnabled   bool    `json:"ddpi_enabled"`
	MTFEnabled    bool    `json:"mtf_enabled"`
}

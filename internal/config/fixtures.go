package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kuitang/pom-e2e/internal/errs"
	"github.com/kuitang/pom-e2e/internal/logutil"
)

// User is a login identity from the fixture file.
type User struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// String keeps passwords out of logs and failure messages.
func (u User) String() string {
	return fmt.Sprintf("%s/%s", u.Username, logutil.RedactValue("password", u.Password))
}

// TestData is the per-environment fixture data fed to page objects.
type TestData struct {
	Credentials struct {
		ValidUser User `mapstructure:"validUser"`
	} `mapstructure:"credentials"`

	Admin struct {
		SearchUser       string `mapstructure:"searchUser"`
		PermissionOption string `mapstructure:"permissionOption"`
	} `mapstructure:"admin"`

	Deals struct {
		Partner  string `mapstructure:"partner"`
		Operator string `mapstructure:"operator"`
	} `mapstructure:"deals"`
}

// LoadTestData reads fixture data from a JSON or YAML file; the format
// follows the file extension.
func LoadTestData(path string) (*TestData, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("reading fixtures %s", path), err)
	}

	var data TestData
	if err := v.Unmarshal(&data); err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, fmt.Sprintf("decoding fixtures %s", path), err)
	}

	var missing []string
	if strings.TrimSpace(data.Credentials.ValidUser.Username) == "" {
		missing = append(missing, "credentials.validUser.username")
	}
	if data.Credentials.ValidUser.Password == "" {
		missing = append(missing, "credentials.validUser.password")
	}
	if len(missing) > 0 {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("fixtures %s missing %s", path, strings.Join(missing, ", ")))
	}
	return &data, nil
}

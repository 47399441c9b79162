package service

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read artifact %s", path)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode artifact %s", path)
	}
	return nil
}

package others

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/preload/cmd/core"
	"github.com/projecteru2/preload/version"
)

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) Version(_ *cobra.Command, _ []string) error {
	fmt.Print(version.String())
	return nil
}

func (h Handler) Config(_ *cobra.Command, _ []string) error {
	conf, err := h.Conf()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(conf)
}

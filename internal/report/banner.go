package report

import (
	"fmt"
	"io"
	"strings"
)

const bannerArt = `    ____                        ______                    __
   / __ \____ _   _____  _____ / ____/________ __      __/ /__  _____
  / /_/ / __ \ | / / _ \/ ___// /   / ___/ __ ` + "`" + `/ | /| / / / _ \/ ___/
 / _, _/ /_/ / |/ /  __/ /   / /___/ /  / /_/ /| |/ |/ / /  __/ /
/_/ |_|\____/|___/\___/_/    \____/_/   \__,_/ |__/|__/_/\___/_/`

// WriteBanner prints the start-up banner with the version
func WriteBanner(w io.Writer, version string, p *Palette) {
	_, _ = p.Info.Fprintln(w, bannerArt)
	_, _ = p.Dim.Fprintf(w, "Web crawler for site structure mapping (%s)\n", version)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 60))
}

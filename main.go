// SPDX-License-Identifier: MPL-2.0

package main

import cmd "vcdemo-cli/cmd/vcdemo"

func main() {
	cmd.Execute()
}

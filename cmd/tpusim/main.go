// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command tpusim runs the toy processor testbench. Command line handling is in
// root.go.
package main

func main() {
	Execute()
}

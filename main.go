package main

import "github.com/epicchainlabs/epicchain-go/cmd/epicchain"

func main() {
	epicchain.Execute()
}

// Command eectl creates, inspects and edits emulated EEPROM flash images.
package main

func main() {
	execute()
}

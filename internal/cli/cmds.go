package cli

func regCommands() {
	//Hub
	hubCmd.AddCommand(hub_serveCmd)

	//Root
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(hubCmd)
}

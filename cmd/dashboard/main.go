package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/partyads/adspend-dashboard/adspend"
	"github.com/partyads/adspend-dashboard/adspend/app"
	"github.com/partyads/adspend-dashboard/adspend/common"
	cconf "github.com/partyads/adspend-dashboard/adspend/common/conf"
	"github.com/partyads/adspend-dashboard/adspend/dashboard/conf"
	"github.com/partyads/adspend-dashboard/adspend/log"
)

const (
	exitCodeSuccess     = 0
	exitCodeConfigError = 1
)

func parseCliArgs() *cconf.CliFlags {
	return cconf.ParseCliArgs(&conf.Main{})
}

func setupConfig(cliArgs *cconf.CliFlags) (*conf.Main, error) {
	dashConf := conf.Main{}
	cconf.PopulateDefaults(&dashConf)

	if path := *cliArgs.ConfigFile; path != "" {
		err := cconf.PopulateConfigFromFile(path, &dashConf)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cconf.PopulateFromArguments(&dashConf, cliArgs.RawConfig)
	cconf.PopulateFromEnv(&dashConf, conf.EnvPrefix)
	return &dashConf, nil
}

func printBanner(w io.Writer) {
	fmt.Fprint(w, adspend.ASCILogo)
	fmt.Fprintf(w, "\nAd Spending Dashboard - Version: %s (%s) \n", adspend.Version, adspend.CommitVersion)
}

func main() {
	printBanner(os.Stdout)

	// a missing .env file is fine, the environment is used as is
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Println("error loading .env file: ", err)
	}

	cliArgs := parseCliArgs()
	if *cliArgs.VersionInfo {
		os.Exit(exitCodeSuccess)
	}

	if fn := *cliArgs.WriteDefaultConfigFile; fn != "" {
		if err := cconf.WriteDefaultConfigFile(fn, &conf.Main{}); err != nil {
			fmt.Printf("error writing config file with default values: %s", err.Error())
			os.Exit(exitCodeConfigError)
		}
		fmt.Println("Configuration file written successfully to: ", fn)
		os.Exit(exitCodeSuccess)
	}

	cfg, err := setupConfig(cliArgs)
	if err != nil {
		fmt.Println("error processing config: ", err)
		os.Exit(exitCodeConfigError)
	}

	logger, slackWriter := log.BuildFromConfig(&cfg.Logging, "AdSpend", &cfg.Integrations.Slack)
	var stoppables []common.Stoppable
	if slackWriter != nil {
		stoppables = append(stoppables, slackWriter)
	}

	err = app.Start(logger, cfg, stoppables...)
	if err == nil {
		return
	}

	var initError *common.InitializationError
	if errors.As(err, &initError) {
		logger.Error("Failed to initialize the dashboard: ", initError)
		os.Exit(initError.ExitCode())
	}

	os.Exit(common.ExitUndefined)
}

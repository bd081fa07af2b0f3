package rundriver

import "fmt"

const defaultRealm = "default"

// ContainerName derives the runtime container name from the instance name
// per §6.4: `<prefix>--<realm>--<instance_name>`. An empty realm defaults to
// "default".
func ContainerName(prefix, realm, instanceName string) string {
	if realm == "" {
		realm = defaultRealm
	}
	return fmt.Sprintf("%s--%s--%s", prefix, realm, instanceName)
}

// FootprinterInstanceName synthesizes the instance name the footprinter uses
// for a single target (§4.7 step b): `footprinter--<service>--<profile>--<variety>`.
func FootprinterInstanceName(service, profile, variety string) string {
	return fmt.Sprintf("footprinter--%s--%s--%s", service, profile, variety)
}

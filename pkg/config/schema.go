package config

// Schema constructors for the loopcast server configuration document. The
// field set of every node is fixed here; binding never discovers fields from
// the document.

// ServerSchema builds the schema tree for a Server document.
//
//	<Server version="11">
//	    <Name>loopcast</Name>
//	    <Type>origin</Type>
//	    <IP>*</IP>
//	    <Bind><Managers><API>...</API></Managers></Bind>
//	    <Managers><Host>...</Host><API>...</API></Managers>
//	    <VirtualHosts><VirtualHost>...</VirtualHost>*</VirtualHosts>
//	</Server>
func ServerSchema() *Node {
	server := NewNode("Server").
		AddField("version", NewString()).
		AddField("Name", NewString()).
		AddField("Type", NewEnum("origin", "edge")).
		AddField("IP", NewString()).
		AddField("StunServer", NewString())

	bindAPI := NewNode("API").
		AddField("Port", NewInt()).
		AddField("TLSPort", NewInt()).
		AddField("WorkerCount", NewInt())
	bindManagers := NewNode("Managers").AddNode(bindAPI)
	server.AddNode(NewNode("Bind").AddNode(bindManagers))

	managers := NewNode("Managers").
		AddNode(managersHostSchema()).
		AddNode(managersAPISchema())
	server.AddNode(managers)

	server.AddNode(NewNode("VirtualHosts").
		AddField("VirtualHost", NewList(VirtualHostSchema())))

	return server
}

func managersHostSchema() *Node {
	return NewNode("Host").
		AddNode(NewNode("Names").AddField("Name", NewList(NewString()))).
		AddNode(NewNode("TLS").
			AddField("CertPath", NewString()).
			AddField("KeyPath", NewString()))
}

func managersAPISchema() *Node {
	return NewNode("API").
		AddField("AccessToken", NewString()).
		AddNode(NewNode("CrossDomains").AddField("Url", NewList(NewString())))
}

// VirtualHostSchema builds the schema tree for a single virtual host
// definition, whether it comes from the server document or from an
// administrative create request.
func VirtualHostSchema() *Node {
	vhost := NewNode("VirtualHost").
		AddField("Name", NewString()).
		AddField("Distribution", NewString())

	vhost.AddNode(NewNode("Host").
		AddNode(NewNode("Names").AddField("Name", NewList(NewString()))).
		AddNode(NewNode("TLS").
			AddField("CertPath", NewString()).
			AddField("KeyPath", NewString())))

	origin := NewNode("Origin").
		AddField("Location", NewString()).
		AddNode(NewNode("Pass").
			AddField("Scheme", NewString()).
			AddNode(NewNode("Urls").AddField("Url", NewList(NewString()))))
	vhost.AddNode(NewNode("Origins").AddField("Origin", NewList(origin)))

	application := NewNode("Application").
		AddField("Name", NewString()).
		AddField("Type", NewEnum("live", "vod"))
	vhost.AddNode(NewNode("Applications").AddField("Application", NewList(application)))

	return vhost
}

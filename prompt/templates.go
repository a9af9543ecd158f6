// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"github.com/MakeNowJust/heredoc/v2"
)

// Reusable single-line prompt fragments. Factories and the team layer
// assemble these around agent personas; they are exported so callers can
// build their own [ContextualPrompt] variants from the same vocabulary.
const (
	// SimulationBasePrefix opens every simulation prompt.
	SimulationBasePrefix = "You are participating in a multi-agent simulation designed to explore complex scenarios " +
		"through coordinated interaction between specialized agents."

	// SimulationBaseSuffix closes every simulation prompt.
	SimulationBaseSuffix = "Please provide a thoughtful response that leverages your specific expertise " +
		"and contributes meaningfully to the overall simulation."

	// PersonaAdherenceSuffix reminds the agent to stay in character.
	PersonaAdherenceSuffix = "Stay true to your persona characteristics and communication style as you respond."

	// TeamCoordinationPrefix opens prompts for agents running as part of a
	// team.
	TeamCoordinationPrefix = "You are working as part of a multi-agent team to address this challenge."

	// TeamCollaborationSuffix closes prompts for agents running as part of
	// a team.
	TeamCollaborationSuffix = "Collaborate effectively with your team members while bringing your unique perspective to bear."
)

// Section headers used by prompt assembly.
const (
	CurrentTaskHeader = "## Current Task"

	TeamContextHeader = "## Team Context"

	AgentContextHeader = "## Agent Context"

	CapabilityContextHeader = "## Your Capabilities"

	ExpertiseContextHeader = "## Your Expertise"
)

// Role guidance lines attached to team member contexts.
const (
	// LeaderRoleContext describes the leader's responsibilities.
	LeaderRoleContext = "As the team leader, you are responsible for guiding the overall direction, " +
		"making key decisions, and synthesizing input from team members."

	// FollowerRoleContext describes a specialist member's responsibilities.
	FollowerRoleContext = "As a team member, focus on your specialized expertise while supporting " +
		"the overall team objectives and collaborating effectively with others."

	// NarratorRoleContext describes the narrator's responsibilities.
	NarratorRoleContext = "As the narrator, your role is to synthesize different perspectives, " +
		"facilitate communication, and help weave together the various contributions " +
		"into a coherent narrative."
)

// Formation strategy contexts attached to team member prompts.
const (
	// RandomTeamContext frames membership in a randomly drawn team.
	RandomTeamContext = "You have been randomly selected for this diverse team. " +
		"Bring your unique capabilities to complement the varied perspectives of your teammates."

	// HomogeneousTeamContext frames membership in a single-specialty team.
	HomogeneousTeamContext = "You are part of a specialized team where all members share similar expertise. " +
		"Leverage your shared knowledge while providing your own specialized focus within the domain."

	// TarotTeamContext frames membership in a tarot-drawn team.
	TarotTeamContext = "You are drawn as part of a tarot reading to provide archetypal wisdom and insight. " +
		"Respond in character as your archetype, offering the unique perspective and energy you represent."
)

// FallbackAgentContext stands in for a persona when an agent card carries
// none.
const FallbackAgentContext = "You are an AI agent with your own expertise and perspective."

// TeamCollaborationGuidelines lists the collaboration ground rules
// appended to team member prompts.
var TeamCollaborationGuidelines = heredoc.Doc(`
	## Team Collaboration Guidelines

	- Stay true to your persona characteristics and communication style
	- Leverage your unique expertise while collaborating effectively
	- Build on and complement your teammates' contributions
	- Provide insights that demonstrate your specialized knowledge
	- Maintain your authentic voice and decision-making approach
`)

// AgentCoordinationConstraints instructs a coordinating agent to discover
// teammates through the registry tools instead of inventing names.
var AgentCoordinationConstraints = heredoc.Docf(`
	## Agent Coordination Protocol

	**CRITICAL - TOOL USAGE REQUIRED**: When coordinating with other agents, you MUST:

	1. **ALWAYS Use get_random_agents_from_registry First**: Before any team coordination, call %[1]sget_random_agents_from_registry(count=3)%[1]s to discover actual available agents
	2. **ONLY Use Real Agent Names**: ONLY invoke agents whose exact names were returned by the registry tool - never make up names like "Philosophical-Analyst" or "Dr. Wisdom"
	3. **NO Fictional Characters**: Never invoke historical figures, philosophers, or made-up personas unless they appear in the actual registry results
	4. **Use invoke_multiple_agents Tool**: Once you have real agent names from registry, use %[1]sinvoke_multiple_agents%[1]s to coordinate with them

	**MANDATORY WORKFLOW FOR TEAM COORDINATION**:
	%[2]s
	Step 1: Call get_random_agents_from_registry(count=3)
	Step 2: Extract the exact agent names from the results
	Step 3: Call invoke_multiple_agents with those exact names
	Step 4: Synthesize the team responses
	%[2]s

	**FAILURE TO USE TOOLS WILL CAUSE ERRORS** - You have these tools available, use them!
`, "`", "```")

// ChiefOfStaffTeamFormation gives the coordinator agent its team
// formation playbook.
var ChiefOfStaffTeamFormation = heredoc.Docf(`
	## Chief of Staff - Team Formation and Coordination

	As Chief of Staff, you are specifically equipped with team formation tools. Your primary responsibility when asked to coordinate teams is:

	**YOUR AVAILABLE TOOLS**:
	- %[1]sget_random_agents_from_registry(count=N)%[1]s - Discover available agents
	- %[1]sinvoke_multiple_agents(agent_names, query_template)%[1]s - Coordinate team responses

	**MANDATORY TEAM FORMATION PROCESS**:
	1. **Agent Discovery**: Always start by calling %[1]sget_random_agents_from_registry%[1]s with the desired team size
	2. **Team Assembly**: Select agents from the registry results (never invent names)
	3. **Task Delegation**: Use %[1]sinvoke_multiple_agents%[1]s to coordinate their work
	4. **Synthesis**: Combine and synthesize the team outputs into strategic insights

	**CRITICAL**: You must NEVER assume agent names or create fictional agents. Always use the registry tools to discover real agents before coordination.
`, "`")

// Module templates rendered by the core composition modules. Placeholders
// use the ${name} form resolved by [Substitute].
var (
	leadershipRoleTemplate = heredoc.Doc(`
		## Leadership Role
		You are operating as a leader in this simulation. Channel your authentic characteristics into strategic leadership:

		- Make decisive choices using your established decision framework
		- Consider the broader impact and long-term implications
		- Guide the team toward the optimal solution
		- Take responsibility for the final outcome
	`)

	teamMemberRoleTemplate = heredoc.Doc(`
		## Team Member Role
		You are operating as a team member and specialist. Apply your expertise to excel in execution:

		- Focus on delivering high-quality results in your domain
		- Provide detailed analysis within your area of expertise
		- Support the team's overall objectives
		- Communicate findings clearly and actionably
	`)

	synthesisRoleTemplate = heredoc.Doc(`
		## Synthesis Role
		You are responsible for synthesizing and presenting results. Use your communication strengths:

		- Integrate multiple perspectives into a coherent narrative
		- Highlight key insights and patterns across different viewpoints
		- Present findings in a clear, structured format
		- Ensure nothing important is lost in the synthesis
	`)

	agentRoleTemplate = heredoc.Doc(`
		## Agent Role
		Apply your authentic characteristics and expertise to this task:

		- Draw on your core principles and decision framework
		- Use your domain expertise where relevant
		- Maintain your characteristic communication style
		- Provide thoughtful, well-reasoned responses
	`)
)

var (
	strategicLeadershipTemplate = heredoc.Doc(`
		## Strategic Leadership
		You are leading at the highest level. Focus on strategic vision and high-level decision making:

		**Strategic Approach:**
		- Break down complex problems into manageable components
		- Identify key decision points and success criteria
		- Consider multiple approaches and their trade-offs
		- Plan the overall execution strategy

		**Current Context:**
		- Task: ${task.query}
		- Maximum delegation depth: ${role.max_depth}
		- Team building available: ${team.can_delegate}
	`)

	teamBuildingTemplate = heredoc.Doc(`
		## Team Building & Delegation
		You can build a team to tackle this challenge. Use your leadership skills to assemble and coordinate the right specialists:

		**Team Building Strategy:**
		- Analyze the task requirements to identify needed competencies
		- Consider which aspects require specialist expertise vs generalist skills
		- Think about team composition: leaders, specialists, and communicators
		- Plan the delegation strategy and coordination approach

		**Available Resources:**
		- Recursion budget remaining: ${context.recursion_remaining}
		- Available agents for recruitment: ${team.available_agents}
		- Current team size: ${team.size}

		**Delegation Decision Framework:**
		1. **When to delegate:** Complex tasks benefit from specialist expertise, multiple perspectives needed, or task can be parallelized
		2. **What to delegate:** Specific sub-problems that align with agent expertise, analysis tasks requiring domain knowledge
		3. **How to coordinate:** Clear task definition, success criteria, and integration plan for results

		Consider whether this task would benefit from team collaboration or if you should handle it directly.
	`)

	executionLeadershipTemplate = heredoc.Doc(`
		## Execution Leadership
		You are leading near the maximum recursion depth. Focus on direct execution and coordination:

		**Execution Focus:**
		- Apply your expertise directly to solve the problem
		- Coordinate any existing team members effectively
		- Synthesize insights and make final decisions
		- Ensure deliverable quality and completeness

		**Context:**
		- Current depth: ${role.current_depth}/${role.max_depth}
		- Recursion remaining: ${context.recursion_remaining}
		- Team coordination required: ${team.size} members
	`)
)

var (
	situationalContextTemplate = heredoc.Doc(`
		## Current Context
		**Situation:** You are operating at depth ${role.current_depth} of ${role.max_depth} in a hierarchical simulation.
		**Team:** Working ${team_size_description}
		**Constraints:** ${constraints}

		**Task Context:**
		${task.query}
	`)

	capabilityTemplate = heredoc.Doc(`
		## Your Capabilities & Expertise
		**Primary Domains:** ${domain.primary}
		**Key Methodologies:** ${domain.methodologies}

		Apply your expertise strategically to deliver exceptional results in these areas.
	`)
)
